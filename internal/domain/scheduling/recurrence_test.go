package scheduling

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "one-time"} {
		k, err := ParseKind(s)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
		if string(k) != s {
			t.Errorf("ParseKind(%q) = %q", s, k)
		}
	}
	for _, s := range []string{"", "monthly", "Daily", "oneTime"} {
		_, err := ParseKind(s)
		if !errors.Is(err, apperror.ErrInvalidRecurrence) {
			t.Errorf("ParseKind(%q) error = %v, want invalid_recurrence_configuration", s, err)
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	got, err := ParseWeekdays([]string{"mo", " We ", "MO", "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"MO", "WE", "FR"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseWeekdays = %v, want %v", got, want)
	}
}

func TestParseWeekdays_Invalid(t *testing.T) {
	tests := map[string][]string{
		"nil":     nil,
		"empty":   {},
		"unknown": {"MO", "XX"},
		"long":    {"monday"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWeekdays(in)
			if !errors.Is(err, apperror.ErrInvalidRecurrence) {
				t.Errorf("expected invalid_recurrence_configuration, got %v", err)
			}
			if ae, ok := apperror.As(err); !ok || ae.Field != "weekdays" {
				t.Errorf("expected weekdays field error, got %+v", ae)
			}
		})
	}
}

func TestExpand_Daily(t *testing.T) {
	dates := Expand(date(2024, 1, 30), date(2024, 2, 2), nil)
	want := []time.Time{date(2024, 1, 30), date(2024, 1, 31), date(2024, 2, 1), date(2024, 2, 2)}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("Expand = %v, want %v", dates, want)
	}
}

func TestExpand_SameDay(t *testing.T) {
	dates := Expand(date(2024, 1, 1), date(2024, 1, 1), nil)
	if len(dates) != 1 || !dates[0].Equal(date(2024, 1, 1)) {
		t.Errorf("expected the single day, got %v", dates)
	}
}

func TestExpand_BackwardsRangeIsEmpty(t *testing.T) {
	if dates := Expand(date(2024, 1, 10), date(2024, 1, 9), nil); len(dates) != 0 {
		t.Errorf("expected no dates, got %v", dates)
	}
}

func TestExpand_IgnoresTimeOfDay(t *testing.T) {
	first := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)
	dates := Expand(first, last, nil)
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %v", dates)
	}
	for _, d := range dates {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("expected midnight, got %s", d)
		}
	}
}

func TestExpand_Weekly(t *testing.T) {
	// 2024-01-01 is a Monday.
	first, last := date(2024, 1, 1), date(2024, 1, 15)
	dates := Expand(first, last, []time.Weekday{time.Monday, time.Wednesday})
	want := []time.Time{
		date(2024, 1, 1), date(2024, 1, 3), date(2024, 1, 8), date(2024, 1, 10), date(2024, 1, 15),
	}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("Expand = %v, want %v", dates, want)
	}
}

func TestExpand_WithinBounds(t *testing.T) {
	first, last := date(2024, 2, 20), date(2024, 4, 3)
	sets := [][]time.Weekday{
		nil,
		{time.Sunday},
		{time.Tuesday, time.Thursday, time.Saturday},
	}
	for _, set := range sets {
		allowed := make(map[time.Weekday]bool)
		for _, wd := range set {
			allowed[wd] = true
		}
		var prev time.Time
		for i, d := range Expand(first, last, set) {
			if d.Before(first) || d.After(last) {
				t.Errorf("date %s outside [%s, %s]", d, first, last)
			}
			if len(set) > 0 && !allowed[d.Weekday()] {
				t.Errorf("date %s falls on %s, not in %v", d, d.Weekday(), set)
			}
			if i > 0 && !d.After(prev) {
				t.Errorf("dates not ascending: %s after %s", d, prev)
			}
			prev = d
		}
	}
}

func TestExpression(t *testing.T) {
	until := date(2024, 1, 31)
	tests := []struct {
		kind     Kind
		weekdays []string
		want     string
	}{
		{KindDaily, nil, "FREQ=DAILY;UNTIL=20240131T235959Z"},
		{KindWeekly, []string{"MO", "WE"}, "FREQ=WEEKLY;BYDAY=MO,WE;UNTIL=20240131T235959Z"},
		{KindOneTime, nil, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := Expression(tt.kind, until, tt.weekdays); got != tt.want {
				t.Errorf("Expression = %q, want %q", got, tt.want)
			}
		})
	}
}
