package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		if got := ColumnLetter(tt.index); got != tt.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestCoordinate(t *testing.T) {
	// Data row 2 renders as row 3: the header row occupies row 1.
	if got := Coordinate(1, 2); got != "B3" {
		t.Errorf("Coordinate(1, 2) = %q, want B3", got)
	}
}

func TestResolver(t *testing.T) {
	ds := New([]string{"name", "amount", "AB"}, nil)
	r := NewResolver(ds)

	tests := []struct {
		ref     ColumnRef
		want    int
		wantErr bool
	}{
		{"name", 0, false},
		{"amount", 1, false},
		{"A", 0, false},
		{"B", 1, false},
		{"C", 2, false},
		// A header literally named "AB" shadows the letter identifier.
		{"AB", 2, false},
		{"missing", 0, true},
		{"D", 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if tt.wantErr {
				var notFound *ColumnNotFoundError
				if !errors.As(err, &notFound) {
					t.Fatalf("Resolve(%q) error = %v, want ColumnNotFoundError", tt.ref, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %d, want %d", tt.ref, got, tt.want)
			}
		})
	}

	if got := r.Letter("amount"); got != "B" {
		t.Errorf("Letter(amount) = %q, want B", got)
	}
	if got := r.Letter("missing"); got != "missing" {
		t.Errorf("Letter(missing) = %q, want the reference verbatim", got)
	}
}

func TestDatasetPadding(t *testing.T) {
	ds := New([]string{"a", "b", "c"}, [][]Cell{
		{NewStringCell("x")},
	})

	if got := ds.Cell(1, 2); !got.IsEmpty() {
		t.Errorf("short row cell = %v, want empty", got)
	}
	if got := ds.Cell(1, 0).String(); got != "x" {
		t.Errorf("Cell(1, 0) = %q, want x", got)
	}
}

func TestDatasetOutOfRange(t *testing.T) {
	ds := New([]string{"a"}, [][]Cell{{NewStringCell("x")}})

	for _, pos := range [][2]int{{0, 0}, {2, 0}, {1, -1}, {1, 5}} {
		if got := ds.Cell(pos[0], pos[1]); !got.IsEmpty() {
			t.Errorf("Cell(%d, %d) = %v, want empty", pos[0], pos[1], got)
		}
	}
}

func TestRowEmpty(t *testing.T) {
	ds := New([]string{"a", "b"}, [][]Cell{
		{NewStringCell(""), NewStringCell("  ")},
		{NewStringCell(""), NewStringCell("x")},
	})

	if !ds.RowEmpty(1) {
		t.Error("RowEmpty(1) = false for whitespace-only row")
	}
	if ds.RowEmpty(2) {
		t.Error("RowEmpty(2) = true for row with data")
	}
}

func TestLastDataRow(t *testing.T) {
	ds := New([]string{"a", "b"}, [][]Cell{
		{NewStringCell("x"), NewStringCell("")},
		{NewStringCell(""), NewStringCell("")},
		{NewStringCell(""), NewStringCell("y")},
		{NewStringCell(""), NewStringCell("")},
	})

	if got := ds.LastDataRow(); got != 3 {
		t.Errorf("LastDataRow() = %d, want 3", got)
	}

	empty := New([]string{"a"}, [][]Cell{{NewStringCell("")}})
	if got := empty.LastDataRow(); got != 0 {
		t.Errorf("LastDataRow() = %d for all-empty dataset, want 0", got)
	}
}

func TestReadCSV(t *testing.T) {
	input := "name,amount\nalice,10\nbob\n"

	ds, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(ds.Header) != 2 || ds.Header[0] != "name" {
		t.Errorf("header = %v", ds.Header)
	}
	if ds.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", ds.RowCount())
	}
	if got := ds.Cell(1, 1).String(); got != "10" {
		t.Errorf("Cell(1, 1) = %q, want 10", got)
	}
	// Ragged second row is padded to the header width.
	if got := ds.Cell(2, 1); !got.IsEmpty() {
		t.Errorf("Cell(2, 1) = %v, want empty", got)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("ReadCSV accepted empty input")
	}
}
