package dataset

import "fmt"

// Dataset is a header row plus ordered data rows. Data rows are addressed
// 1-based, matching spreadsheet semantics with the header row excluded.
// Datasets are immutable during a validation run; no rule mutates rows.
type Dataset struct {
	// Header contains the column names from the header row. Columns
	// without a name keep an empty string and remain addressable by
	// letter identifier.
	Header []string

	rows [][]Cell
}

// New creates a dataset from a header and data rows. Rows shorter than
// the header are padded with empty cells so every row has a cell for
// every header column.
func New(header []string, rows [][]Cell) *Dataset {
	padded := make([][]Cell, len(rows))
	for i, row := range rows {
		if len(row) >= len(header) {
			padded[i] = row
			continue
		}
		p := make([]Cell, len(header))
		copy(p, row)
		padded[i] = p
	}
	return &Dataset{Header: header, rows: padded}
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int {
	return len(d.rows)
}

// Cell returns the cell at the 1-based data row and zero-based column
// index. Out-of-range coordinates yield an empty cell, which keeps
// missing cells equivalent to blank ones during evaluation.
func (d *Dataset) Cell(row, col int) Cell {
	if row < 1 || row > len(d.rows) {
		return Cell{}
	}
	r := d.rows[row-1]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Row returns the cells of the 1-based data row.
func (d *Dataset) Row(row int) []Cell {
	if row < 1 || row > len(d.rows) {
		return nil
	}
	return d.rows[row-1]
}

// RowEmpty reports whether every cell in the 1-based data row is empty.
func (d *Dataset) RowEmpty(row int) bool {
	for _, c := range d.Row(row) {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// LastDataRow returns the 1-based index of the last row holding any
// data, or 0 when every row is empty. Rows past it are the trailing
// blank padding spreadsheets export below the data and are not
// validated; blank rows between data rows are.
func (d *Dataset) LastDataRow() int {
	for row := len(d.rows); row >= 1; row-- {
		if !d.RowEmpty(row) {
			return row
		}
	}
	return 0
}

// Coordinate renders a cell address in display form ("B12"). The row is
// the 1-based data row; the rendered row number accounts for the header
// row so it matches what a user sees in their spreadsheet.
func Coordinate(col int, row int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row+1)
}
