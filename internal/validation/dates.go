package validation

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Partial dates resolve to the first day of
// the period they name.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

// ParseDate parses the date formats resumes commonly carry and returns the
// calendar date at midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// startsAfterEnd reports whether both dates parse and start is strictly
// later than end. Equal dates and unparseable values never fail.
func startsAfterEnd(start, end string) bool {
	s, ok := ParseDate(start)
	if !ok {
		return false
	}
	e, ok := ParseDate(end)
	if !ok {
		return false
	}
	return s.After(e)
}
