package syukujitsu

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDate is returned when an input cannot be interpreted as a
// calendar date. Check with errors.Is.
var ErrInvalidDate = errors.New("syukujitsu: invalid date")

// jstZone is the Asia/Tokyo timezone (UTC+9) used to normalize all
// moment-in-time inputs to the Japanese calendar date before lookups.
var jstZone = time.FixedZone("Asia/Tokyo", 9*60*60)

// dateKeyLayout is the canonical date-key format: the exact format of
// the date column in the Cabinet Office CSV (slash-separated, no
// leading zeros). The parser stores keys in this format verbatim and
// dateKey renders lookup keys with it; the two must never diverge.
const dateKeyLayout = "2006/1/2"

// dateKey renders a normalized date as its table lookup key.
func dateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// dateOnlyLayouts are tried for strings that carry no time-of-day.
// A date-only string denotes the Japanese calendar date directly, so
// no timezone conversion applies.
var dateOnlyLayouts = []string{
	"2006/1/2",
	"2006-1-2",
}

// timestampLayouts are tried for strings that carry a time-of-day.
// These are moments in time and are converted to JST first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts a date-like value into a canonical date: midnight
// UTC on the Japanese calendar day the input denotes.
//
// Accepted inputs:
//   - time.Time: converted to JST, truncated to the calendar date.
//   - int, int64, float64: milliseconds since the Unix epoch.
//   - string: a date ("2024/1/1", "2024-01-01") or a timestamp
//     (RFC 3339 and common variants).
//
// Any other value, or a string/number that does not denote a valid
// calendar date, fails with an error wrapping [ErrInvalidDate].
func Normalize(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return civilDate(x), nil
	case int:
		return civilDate(time.UnixMilli(int64(x))), nil
	case int64:
		return civilDate(time.UnixMilli(x)), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, x)
		}
		return civilDate(time.UnixMilli(int64(x))), nil
	case string:
		return parseDateString(x)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, v)
	}
}

// civilDate extracts the JST calendar date of a moment in time,
// represented as midnight UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.In(jstZone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidDate)
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civilDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
