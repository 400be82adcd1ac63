package scheduling

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

const minutesPerDay = 24 * 60

// WallClock is a UTC time of day at minute precision.
type WallClock struct {
	minutes int
}

func NewWallClock(hour, minute int) (WallClock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return WallClock{}, fmt.Errorf("wall clock %02d:%02d out of range", hour, minute)
	}
	return WallClock{minutes: hour*60 + minute}, nil
}

// ParseWallClock parses "HH:mm".
func ParseWallClock(s string) (WallClock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return WallClock{}, fmt.Errorf("invalid wall clock %q, expected HH:mm", s)
	}
	return WallClock{minutes: t.Hour()*60 + t.Minute()}, nil
}

func (w WallClock) Hour() int   { return w.minutes / 60 }
func (w WallClock) Minute() int { return w.minutes % 60 }

// Minutes returns minutes since midnight.
func (w WallClock) Minutes() int { return w.minutes }

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour(), w.Minute())
}

// Add returns w shifted by d minutes. ok is false when the result leaves the
// day.
func (w WallClock) Add(d int) (WallClock, bool) {
	m := w.minutes + d
	if m < 0 || m >= minutesPerDay {
		return WallClock{}, false
	}
	return WallClock{minutes: m}, true
}

func (w WallClock) Before(o WallClock) bool { return w.minutes < o.minutes }
func (w WallClock) After(o WallClock) bool  { return w.minutes > o.minutes }

// On returns the instant of w on date.
func (w WallClock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, w.Hour(), w.Minute(), 0, 0, time.UTC)
}

func (w WallClock) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *WallClock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseWallClock(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// isoLayouts lists the accepted ISO-8601 forms: extended (2006-01-02T15:04)
// or basic (20060102T1504) notation, a T or space separator, hour, minute or
// second precision and an optional Z, ±hh:mm, ±hhmm or ±hh offset. Layouts
// without a zone are read as UTC; fractional seconds are accepted after the
// seconds field.
var isoLayouts = buildISOLayouts()

func buildISOLayouts() []string {
	notations := []struct {
		date  string
		times []string
	}{
		{"2006-01-02", []string{"15:04:05", "15:04", "15"}},
		{"20060102", []string{"150405", "1504", "15"}},
	}
	zones := []string{"Z07:00", "Z0700", "Z07", ""}

	var layouts []string
	for _, n := range notations {
		for _, sep := range []string{"T", " "} {
			for _, clock := range n.times {
				for _, zone := range zones {
					layouts = append(layouts, n.date+sep+clock+zone)
				}
			}
		}
		layouts = append(layouts, n.date)
	}
	return layouts
}

// ParseInstant strictly parses an ISO-8601 date or date-time and returns it
// in UTC.
func ParseInstant(raw string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.Newf(apperror.KindInvalidTimeFormat,
		"%q is not a valid ISO 8601 timestamp", raw)
}

// IsDateOnly reports whether raw is a bare calendar date in extended
// (YYYY-MM-DD) or basic (YYYYMMDD) notation.
func IsDateOnly(raw string) bool {
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}

// Normalize splits an ISO-8601 timestamp into its UTC calendar date
// (midnight) and its UTC wall clock truncated to the minute.
func Normalize(raw string) (time.Time, WallClock, error) {
	t, err := ParseInstant(raw)
	if err != nil {
		return time.Time{}, WallClock{}, err
	}
	return DateOf(t), WallClock{minutes: t.Hour()*60 + t.Minute()}, nil
}

// NormalizeDate returns the UTC calendar date of an ISO-8601 value.
func NormalizeDate(raw string) (time.Time, error) {
	t, err := ParseInstant(raw)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DateOf truncates t to midnight of its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
