package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

// Kind is how a recurrence rule repeats.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindOneTime Kind = "one-time"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDaily, KindWeekly, KindOneTime:
		return k, nil
	}
	return "", apperror.Field(apperror.KindInvalidRecurrence, "recurrence_type",
		fmt.Sprintf("invalid recurrence_type %q, expected daily, weekly or one-time", s))
}

// weekdayCodes maps the two-letter RFC 5545 day codes to time.Weekday.
var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// ParseWeekdays upper-cases and validates day codes, keeping request order
// and dropping repeats. An empty set is an error.
func ParseWeekdays(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, apperror.Field(apperror.KindInvalidRecurrence, "weekdays",
			"weekdays is required for weekly recurrence")
	}

	seen := make(map[string]bool, len(raw))
	codes := make([]string, 0, len(raw))
	for _, d := range raw {
		code := strings.ToUpper(strings.TrimSpace(d))
		if _, ok := weekdayCodes[code]; !ok {
			return nil, apperror.Field(apperror.KindInvalidRecurrence, "weekdays",
				"weekdays must contain valid values (MO, TU, WE, TH, FR, SA, SU)")
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

// Expand lists the dates from first to last inclusive, ascending. When
// weekdays is non-empty only dates falling on those days are kept. A last
// date before first yields nil.
func Expand(first, last time.Time, weekdays []time.Weekday) []time.Time {
	first, last = DateOf(first), DateOf(last)
	if last.Before(first) {
		return nil
	}

	var keep map[time.Weekday]bool
	if len(weekdays) > 0 {
		keep = make(map[time.Weekday]bool, len(weekdays))
		for _, wd := range weekdays {
			keep[wd] = true
		}
	}

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if keep != nil && !keep[d.Weekday()] {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// Expression renders the RFC 5545 style rule stored with a recurrence. It is
// empty for one-time rules.
func Expression(kind Kind, until time.Time, weekdays []string) string {
	stamp := until.UTC().Format("20060102") + "T235959Z"
	switch kind {
	case KindDaily:
		return "FREQ=DAILY;UNTIL=" + stamp
	case KindWeekly:
		return "FREQ=WEEKLY;BYDAY=" + strings.Join(weekdays, ",") + ";UNTIL=" + stamp
	}
	return ""
}

func toWeekdays(codes []string) []time.Weekday {
	out := make([]time.Weekday, 0, len(codes))
	for _, c := range codes {
		out = append(out, weekdayCodes[c])
	}
	return out
}
