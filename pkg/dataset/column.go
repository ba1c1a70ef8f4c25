package dataset

import "fmt"

// ColumnRef addresses a column either by spreadsheet letter identifier
// ("A", "BC") or by header name ("Amount"). References are resolved
// against a Dataset's header row by a Resolver.
type ColumnRef string

// ColumnLetter converts a zero-based column index to its spreadsheet
// letter identifier (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColumnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

// parseColumnLetters converts a letter identifier to a zero-based index.
// It returns false if the string is not a pure A-Z letter sequence.
func parseColumnLetters(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	index := 0
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return 0, false
		}
		index = index*26 + int(r-'A') + 1
	}
	return index - 1, true
}

// ColumnNotFoundError indicates a column reference that does not resolve
// against the dataset header. It is a configuration-level failure: the
// engine surfaces it once per run, not per row.
type ColumnNotFoundError struct {
	Ref ColumnRef
}

// Error returns the error message.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in dataset header", string(e.Ref))
}

// Resolver resolves column references against a dataset header.
// Resolution is deterministic and cached for the lifetime of the resolver,
// which matches the lifetime of one validation run.
type Resolver struct {
	ds    *Dataset
	index map[ColumnRef]int
}

// NewResolver creates a resolver for the given dataset.
func NewResolver(ds *Dataset) *Resolver {
	return &Resolver{
		ds:    ds,
		index: make(map[ColumnRef]int),
	}
}

// Resolve returns the zero-based column index for a reference.
// Header names take precedence over letter identifiers, so a header
// literally named "AB" shadows the 28th column; letter identifiers are
// accepted for any column within the header width, named or not.
func (r *Resolver) Resolve(ref ColumnRef) (int, error) {
	if idx, ok := r.index[ref]; ok {
		if idx < 0 {
			return 0, &ColumnNotFoundError{Ref: ref}
		}
		return idx, nil
	}

	idx, err := r.resolve(ref)
	if err != nil {
		r.index[ref] = -1
		return 0, err
	}
	r.index[ref] = idx
	return idx, nil
}

// Letter returns the display form (letter identifier) of a reference,
// resolving it if needed. Unresolvable references render as-is.
func (r *Resolver) Letter(ref ColumnRef) string {
	idx, err := r.Resolve(ref)
	if err != nil {
		return string(ref)
	}
	return ColumnLetter(idx)
}

func (r *Resolver) resolve(ref ColumnRef) (int, error) {
	for i, name := range r.ds.Header {
		if name == string(ref) {
			return i, nil
		}
	}

	if idx, ok := parseColumnLetters(string(ref)); ok && idx < len(r.ds.Header) {
		return idx, nil
	}

	return 0, &ColumnNotFoundError{Ref: ref}
}
