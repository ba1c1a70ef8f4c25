package dataset

import (
	"strings"
	"time"
)

// DefaultDateFormats is the ordered list of layouts tried when a rule does
// not specify its own date formats. The first matching layout wins, which
// makes parsing deterministic for ambiguous day/month strings.
var DefaultDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"20060102",
	"02-01-2006",
	"01-02-2006",
}

// ParseDate parses a string against the given layouts in order. A nil or
// empty layout list falls back to DefaultDateFormats.
func ParseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if len(layouts) == 0 {
		layouts = DefaultDateFormats
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
