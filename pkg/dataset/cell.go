package dataset

import (
	"strconv"
	"strings"
	"time"
)

// CellType identifies the type of a cell value.
type CellType string

const (
	CellEmpty  CellType = "empty"
	CellString CellType = "string"
	CellNumber CellType = "number"
	CellDate   CellType = "date"
	CellBool   CellType = "bool"
)

// Cell is a single typed cell value. The zero value is an empty cell.
type Cell struct {
	Type CellType

	str  string
	num  float64
	date time.Time
	b    bool
}

// NewStringCell creates a string cell. An empty string yields an empty cell.
func NewStringCell(s string) Cell {
	if s == "" {
		return Cell{Type: CellEmpty}
	}
	return Cell{Type: CellString, str: s}
}

// NewNumberCell creates a numeric cell.
func NewNumberCell(n float64) Cell {
	return Cell{Type: CellNumber, num: n}
}

// NewDateCell creates a date cell.
func NewDateCell(t time.Time) Cell {
	return Cell{Type: CellDate, date: t}
}

// NewBoolCell creates a boolean cell.
func NewBoolCell(b bool) Cell {
	return Cell{Type: CellBool, b: b}
}

// IsEmpty reports whether the cell is empty. Whitespace-only strings
// count as empty, matching the emptiness rule used by NotBlank and the
// is-empty condition operators.
func (c Cell) IsEmpty() bool {
	switch c.Type {
	case CellEmpty:
		return true
	case CellString:
		return strings.TrimSpace(c.str) == ""
	default:
		return false
	}
}

// String returns the canonical string representation of the cell.
// Empty cells render as the empty string.
func (c Cell) String() string {
	switch c.Type {
	case CellString:
		return c.str
	case CellNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case CellDate:
		return c.date.Format("2006-01-02")
	case CellBool:
		return strconv.FormatBool(c.b)
	default:
		return ""
	}
}

// Number returns the cell as a float64. String cells are parsed with
// locale normalization (thousands separators and comma decimal marks).
// The second return value reports whether the conversion succeeded.
func (c Cell) Number() (float64, bool) {
	switch c.Type {
	case CellNumber:
		return c.num, true
	case CellBool:
		if c.b {
			return 1, true
		}
		return 0, true
	case CellString:
		return ParseNumber(c.str)
	default:
		return 0, false
	}
}

// Date returns the cell as a time.Time. String cells are tried against
// the given layouts in order; the first matching layout wins. A nil or
// empty layout list falls back to DefaultDateFormats.
func (c Cell) Date(layouts []string) (time.Time, bool) {
	switch c.Type {
	case CellDate:
		return c.date, true
	case CellString:
		return ParseDate(c.str, layouts)
	default:
		return time.Time{}, false
	}
}

// Bool returns the cell as a boolean. Accepted string forms are the ones
// the Type validator accepts: "0", "1", "true", "false", "True", "False".
func (c Cell) Bool() (bool, bool) {
	switch c.Type {
	case CellBool:
		return c.b, true
	case CellString:
		switch c.str {
		case "1", "true", "True":
			return true, true
		case "0", "false", "False":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}
