package engine

import (
	"strings"

	"veridata-hq/tabular/pkg/dataset"
)

// tupleSep separates components of a combination key. Unit Separator
// cannot occur in cell text, so joined keys never collide.
const tupleSep = "\x1f"

// valueKey normalizes a cell for duplicate detection.
func valueKey(cell dataset.Cell, caseSensitive bool) string {
	s := strings.TrimSpace(cell.String())
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

// duplicateRows scans one column and returns the set of rows whose
// value occurs more than once. Empty cells are ignored.
func duplicateRows(ds *dataset.Dataset, col int, caseSensitive bool) map[int]bool {
	seen := make(map[string][]int)
	for row := 1; row <= ds.RowCount(); row++ {
		cell := ds.Cell(row, col)
		if cell.IsEmpty() {
			continue
		}
		key := valueKey(cell, caseSensitive)
		seen[key] = append(seen[key], row)
	}

	dups := make(map[int]bool)
	for _, rows := range seen {
		if len(rows) < 2 {
			continue
		}
		for _, row := range rows {
			dups[row] = true
		}
	}
	return dups
}

// duplicateTupleRows scans a column combination and returns the set of
// rows whose joined tuple occurs more than once. Tuples whose cells are
// all empty are ignored.
func duplicateTupleRows(ds *dataset.Dataset, cols []int, caseSensitive bool) map[int]bool {
	seen := make(map[string][]int)
	for row := 1; row <= ds.RowCount(); row++ {
		parts := make([]string, len(cols))
		empty := true
		for i, col := range cols {
			cell := ds.Cell(row, col)
			if !cell.IsEmpty() {
				empty = false
			}
			parts[i] = valueKey(cell, caseSensitive)
		}
		if empty {
			continue
		}

		key := strings.Join(parts, tupleSep)
		seen[key] = append(seen[key], row)
	}

	dups := make(map[int]bool)
	for _, rows := range seen {
		if len(rows) < 2 {
			continue
		}
		for _, row := range rows {
			dups[row] = true
		}
	}
	return dups
}
