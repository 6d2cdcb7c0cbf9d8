package domain

import (
	"math"
	"strings"
	"time"
)

const (
	// DateLayout is the text form used for committed dates and tick keys.
	DateLayout = "2006-01-02 15:04:05"
	DayLayout  = "2006-01-02"
)

// ParseDate reads a date value from a record field. Strings may be a bare
// day, DateLayout or RFC 3339. A bare day read as an end date resolves to
// the last millisecond of that day. Anything else yields nil.
func ParseDate(v any, loc *time.Location, endOfDay bool) *time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch val := v.(type) {
	case time.Time:
		t := val.In(loc)
		return &t
	case *time.Time:
		if val == nil {
			return nil
		}
		t := val.In(loc)
		return &t
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
			if endOfDay {
				t = EndOfDay(t)
			}
			return &t
		}
		if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
			return &t
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			t = t.In(loc)
			return &t
		}
	}
	return nil
}

// FormatDate renders t with DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// UnixMilliF returns t as fractional milliseconds since the epoch.
func UnixMilliF(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}

// FromUnixMilliF is the inverse of UnixMilliF, rounded to the millisecond.
func FromUnixMilliF(ms float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(math.Round(ms))).In(loc)
}
