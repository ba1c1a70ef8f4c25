package dataset

import (
	"strconv"
	"strings"
)

// ParseNumber parses a string as a float64 after normalizing common
// locale conventions. Thousands separators (spaces, non-breaking spaces,
// grouping commas or dots) are removed and a comma decimal mark is
// rewritten to a dot before parsing. Strings that do not normalize to
// standard decimal notation are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	normalized := normalizeDecimal(s)

	n, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalizeDecimal rewrites locale-specific digit grouping and decimal
// marks into standard decimal notation.
//
// Rules, in order:
//   - spaces and non-breaking spaces between digits are grouping, removed
//   - when both '.' and ',' appear, the rightmost one is the decimal mark;
//     the other is grouping and removed
//   - a single ',' followed by anything but exactly three digits is a
//     decimal mark; otherwise commas are grouping
//   - repeated '.' separators are grouping ("1.234.567")
func normalizeDecimal(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}

	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}

	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}
