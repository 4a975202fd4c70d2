package analysis

import (
	"math"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/1/2",
	"2006.01.02",
	"1/2/2006",
	"1-2-2006",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1-2-06",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01",
}

// ParseDate reads a cell as a calendar date. Strings are tried against a
// list of common layouts; numbers are taken as Unix milliseconds. Empty,
// zero and unparseable values report false.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return d.UTC(), !d.IsZero()
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}
	if n, ok := asNumber(v); ok && n != 0 && !math.IsNaN(n) {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	return time.Time{}, false
}
