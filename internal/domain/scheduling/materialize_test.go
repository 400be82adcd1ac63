package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

func TestMaterialize_ExactTiling(t *testing.T) {
	got := Materialize(mustClock(t, "09:00"), mustClock(t, "10:00"), 30)
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
	if got[0].Start.String() != "09:00" || got[0].End.String() != "09:30" {
		t.Errorf("first window %s-%s", got[0].Start, got[0].End)
	}
	if got[1].Start.String() != "09:30" || got[1].End.String() != "10:00" {
		t.Errorf("second window %s-%s", got[1].Start, got[1].End)
	}
}

func TestMaterialize_DropsRemainder(t *testing.T) {
	got := Materialize(mustClock(t, "09:00"), mustClock(t, "10:10"), 30)
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
	if got[1].End.String() != "10:00" {
		t.Errorf("expected last window to end at 10:00, got %s", got[1].End)
	}
}

func TestMaterialize_Empty(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		duration   int
	}{
		{"end before start", "10:00", "09:00", 15},
		{"zero width", "10:00", "10:00", 15},
		{"window shorter than duration", "10:00", "10:20", 30},
		{"zero duration", "10:00", "11:00", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Materialize(mustClock(t, tt.start), mustClock(t, tt.end), tt.duration); len(got) != 0 {
				t.Errorf("expected no windows, got %v", got)
			}
		})
	}
}

func TestMaterialize_EndOfDay(t *testing.T) {
	got := Materialize(mustClock(t, "23:00"), mustClock(t, "23:59"), 15)
	if len(got) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(got))
	}
	if got[2].End.String() != "23:45" {
		t.Errorf("expected last window to end at 23:45, got %s", got[2].End)
	}
}

func TestMaterialize_Properties(t *testing.T) {
	windows := [][2]string{
		{"00:00", "23:59"},
		{"08:10", "12:05"},
		{"13:00", "13:44"},
		{"06:30", "07:00"},
	}
	for _, d := range AllowedDurations {
		for _, w := range windows {
			start, end := mustClock(t, w[0]), mustClock(t, w[1])
			got := Materialize(start, end, d)

			if span := end.Minutes() - start.Minutes(); len(got) != span/d {
				t.Errorf("%s-%s/%d: expected %d windows, got %d", w[0], w[1], d, span/d, len(got))
			}
			for i, iv := range got {
				if iv.End.Minutes()-iv.Start.Minutes() != d {
					t.Errorf("window %s-%s is not %d minutes", iv.Start, iv.End, d)
				}
				if iv.End.After(end) {
					t.Errorf("window %s-%s exceeds %s", iv.Start, iv.End, end)
				}
				if i == 0 && iv.Start != start {
					t.Errorf("first window starts at %s, want %s", iv.Start, start)
				}
				if i > 0 && iv.Start != got[i-1].End {
					t.Errorf("window %s-%s does not follow %s", iv.Start, iv.End, got[i-1].End)
				}
			}
		}
	}
}

func dailySpec() RecurrenceSpec {
	return RecurrenceSpec{
		StartTime:      "2024-01-01T09:00:00Z",
		EndTime:        "2024-01-01T10:00:00Z",
		SlotDuration:   30,
		RecurrenceType: "daily",
		RepeatUntil:    "2024-01-02",
	}
}

func TestBuildPlan_Daily(t *testing.T) {
	p, err := BuildPlan(dailySpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind != KindDaily || p.Start.String() != "09:00" || p.End.String() != "10:00" || p.Duration != 30 {
		t.Errorf("unexpected plan %+v", p)
	}
	if !p.First.Equal(date(2024, 1, 1)) || !p.Last.Equal(date(2024, 1, 2)) {
		t.Errorf("unexpected range %s..%s", p.First, p.Last)
	}

	rule := p.Rule(uuid.New())
	if rule.RecurrenceRule == nil || *rule.RecurrenceRule != "FREQ=DAILY;UNTIL=20240102T235959Z" {
		t.Errorf("unexpected expression %v", rule.RecurrenceRule)
	}
	if rule.OneTimeDate != nil {
		t.Error("expected no one_time_date on a daily rule")
	}

	slots := p.Slots(rule)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Status != SlotAvailable {
			t.Errorf("expected available, got %s", s.Status)
		}
		if s.DoctorID != rule.DoctorID || s.RecurrenceRuleID != rule.ID {
			t.Error("slot lineage does not match rule")
		}
	}
}

func TestBuildPlan_Weekly(t *testing.T) {
	p, err := BuildPlan(RecurrenceSpec{
		StartTime:      "2024-01-01T09:00:00Z",
		EndTime:        "2024-01-01T09:30:00Z",
		SlotDuration:   30,
		RecurrenceType: "weekly",
		Weekdays:       []string{"we", "mo"},
		RepeatUntil:    "2024-01-15T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rule := p.Rule(uuid.New())
	if got := *rule.RecurrenceRule; got != "FREQ=WEEKLY;BYDAY=WE,MO;UNTIL=20240115T235959Z" {
		t.Errorf("unexpected expression %q", got)
	}
	for _, d := range p.Dates() {
		if wd := d.Weekday(); wd != time.Monday && wd != time.Wednesday {
			t.Errorf("date %s falls on %s", d, wd)
		}
	}
	if n := len(p.Slots(rule)); n != 5 {
		t.Errorf("expected 5 slots, got %d", n)
	}
}

func TestBuildPlan_OneTime(t *testing.T) {
	p, err := BuildPlan(RecurrenceSpec{
		StartTime:      "2024-01-01T14:00:00Z",
		EndTime:        "2024-01-01T14:15:00Z",
		SlotDuration:   15,
		RecurrenceType: "one-time",
		OneTimeDate:    "2024-02-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dates := p.Dates()
	if len(dates) != 1 || !dates[0].Equal(date(2024, 2, 10)) {
		t.Fatalf("expected only 2024-02-10, got %v", dates)
	}
	rule := p.Rule(uuid.New())
	if rule.RecurrenceRule != nil || rule.RepeatUntil != nil {
		t.Error("expected no expression or until on a one-time rule")
	}
	if rule.OneTimeDate == nil || !rule.OneTimeDate.Equal(date(2024, 2, 10)) {
		t.Errorf("unexpected one_time_date %v", rule.OneTimeDate)
	}
	slots := p.Slots(rule)
	if len(slots) != 1 || !slots[0].Date.Equal(date(2024, 2, 10)) {
		t.Errorf("expected one slot on 2024-02-10, got %d", len(slots))
	}
}

func TestBuildPlan_BackwardsRange(t *testing.T) {
	spec := dailySpec()
	spec.RepeatUntil = "2023-12-25"
	p, err := BuildPlan(spec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n := len(p.Slots(p.Rule(uuid.New()))); n != 0 {
		t.Errorf("expected no slots, got %d", n)
	}
}

func TestBuildPlan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecurrenceSpec)
		want   error
		field  string
	}{
		{"bad start", func(s *RecurrenceSpec) { s.StartTime = "9am" }, apperror.ErrInvalidTimeFormat, "start_time"},
		{"bad end", func(s *RecurrenceSpec) { s.EndTime = "2024-01-01T10:00 PM" }, apperror.ErrInvalidTimeFormat, "end_time"},
		{"end before start", func(s *RecurrenceSpec) { s.EndTime = "2024-01-01T08:00:00Z" }, apperror.ErrValidation, "end_time"},
		{"duration", func(s *RecurrenceSpec) { s.SlotDuration = 20 }, apperror.ErrValidation, "slot_duration"},
		{"kind", func(s *RecurrenceSpec) { s.RecurrenceType = "monthly" }, apperror.ErrInvalidRecurrence, "recurrence_type"},
		{"missing kind", func(s *RecurrenceSpec) { s.RecurrenceType = "" }, apperror.ErrInvalidRecurrence, "recurrence_type"},
		{"weekly without weekdays", func(s *RecurrenceSpec) { s.RecurrenceType = "weekly" }, apperror.ErrInvalidRecurrence, "weekdays"},
		{"one-time without date", func(s *RecurrenceSpec) { s.RecurrenceType = "one-time" }, apperror.ErrInvalidRecurrence, "one_time_date"},
		{"one-time bad date", func(s *RecurrenceSpec) {
			s.RecurrenceType = "one-time"
			s.OneTimeDate = "10/02/2024"
		}, apperror.ErrInvalidTimeFormat, "one_time_date"},
		{"daily without until", func(s *RecurrenceSpec) { s.RepeatUntil = "" }, apperror.ErrInvalidRecurrence, "repeat_until"},
		{"bad until", func(s *RecurrenceSpec) { s.RepeatUntil = "soon" }, apperror.ErrInvalidTimeFormat, "repeat_until"},
		{"horizon", func(s *RecurrenceSpec) { s.RepeatUntil = "2027-01-01" }, apperror.ErrValidation, "repeat_until"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := dailySpec()
			tt.mutate(&spec)
			_, err := BuildPlan(spec)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			ae, _ := apperror.As(err)
			if ae.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ae.Field)
			}
		})
	}
}
