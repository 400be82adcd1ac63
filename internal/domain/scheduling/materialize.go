package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

// AllowedDurations are the slot lengths in minutes a rule may use.
var AllowedDurations = []int{15, 30}

// MaxHorizonDays caps how far past its first date a rule may repeat.
const MaxHorizonDays = 731

// RecurrenceSpec is a slot generation request as received from a caller.
// Timestamps are raw ISO-8601 strings.
type RecurrenceSpec struct {
	StartTime      string
	EndTime        string
	SlotDuration   int
	RecurrenceType string
	RepeatUntil    string
	Weekdays       []string
	OneTimeDate    string
}

// Plan is a validated RecurrenceSpec.
type Plan struct {
	Kind     Kind
	Start    WallClock
	End      WallClock
	Duration int
	First    time.Time
	Last     time.Time
	Weekdays []string
}

// Interval is one slot window within a day.
type Interval struct {
	Start WallClock
	End   WallClock
}

// BuildPlan validates spec without side effects.
func BuildPlan(spec RecurrenceSpec) (*Plan, error) {
	startRaw := strings.TrimSpace(spec.StartTime)
	endRaw := strings.TrimSpace(spec.EndTime)

	startAt, err := ParseInstant(startRaw)
	if err != nil {
		return nil, fieldError(err, "start_time")
	}
	endAt, err := ParseInstant(endRaw)
	if err != nil {
		return nil, fieldError(err, "end_time")
	}
	if endAt.Before(startAt) {
		return nil, apperror.Field(apperror.KindValidation, "end_time", "end_time must be after start_time")
	}
	if !durationAllowed(spec.SlotDuration) {
		return nil, apperror.Field(apperror.KindValidation, "slot_duration",
			fmt.Sprintf("slot_duration must be one of %v minutes, got %d", AllowedDurations, spec.SlotDuration))
	}

	kind, err := ParseKind(strings.TrimSpace(spec.RecurrenceType))
	if err != nil {
		return nil, err
	}

	startDate, startClock, _ := Normalize(startRaw)
	_, endClock, _ := Normalize(endRaw)
	p := &Plan{
		Kind:     kind,
		Start:    startClock,
		End:      endClock,
		Duration: spec.SlotDuration,
		First:    startDate,
	}

	switch kind {
	case KindOneTime:
		raw := strings.TrimSpace(spec.OneTimeDate)
		if raw == "" {
			return nil, apperror.Field(apperror.KindInvalidRecurrence, "one_time_date",
				"one_time_date is required for one-time recurrence")
		}
		anchor, err := NormalizeDate(raw)
		if err != nil {
			return nil, fieldError(err, "one_time_date")
		}
		p.First, p.Last = anchor, anchor
		return p, nil

	case KindWeekly:
		codes, err := ParseWeekdays(spec.Weekdays)
		if err != nil {
			return nil, err
		}
		p.Weekdays = codes
	}

	raw := strings.TrimSpace(spec.RepeatUntil)
	if raw == "" {
		return nil, apperror.Field(apperror.KindInvalidRecurrence, "repeat_until",
			"repeat_until is required for daily and weekly recurrence")
	}
	until, err := NormalizeDate(raw)
	if err != nil {
		return nil, fieldError(err, "repeat_until")
	}
	if until.Sub(p.First) > MaxHorizonDays*24*time.Hour {
		return nil, apperror.Field(apperror.KindValidation, "repeat_until",
			fmt.Sprintf("repeat_until must be within %d days of start_time", MaxHorizonDays))
	}
	p.Last = until
	return p, nil
}

func durationAllowed(d int) bool {
	for _, a := range AllowedDurations {
		if d == a {
			return true
		}
	}
	return false
}

func fieldError(err error, field string) error {
	if ae, ok := apperror.As(err); ok {
		return apperror.Field(ae.Kind, field, fmt.Sprintf("%s: %s", field, ae.Message))
	}
	return err
}

// Dates expands the plan to the calendar dates that receive slots.
func (p *Plan) Dates() []time.Time {
	if p.Kind == KindWeekly {
		return Expand(p.First, p.Last, toWeekdays(p.Weekdays))
	}
	return Expand(p.First, p.Last, nil)
}

// Rule builds the audit record for the plan.
func (p *Plan) Rule(doctorID uuid.UUID) *RecurrenceRule {
	r := &RecurrenceRule{
		DoctorID:       doctorID,
		StartTime:      p.Start,
		EndTime:        p.End,
		SlotDuration:   p.Duration,
		RecurrenceType: p.Kind,
	}
	if p.Kind == KindOneTime {
		anchor := p.First
		r.OneTimeDate = &anchor
		return r
	}
	until := p.Last
	expr := Expression(p.Kind, until, p.Weekdays)
	r.RepeatUntil = &until
	r.RecurrenceRule = &expr
	r.Weekdays = p.Weekdays
	return r
}

// Materialize tiles [start, end) with back-to-back windows of duration
// minutes. A trailing remainder shorter than duration is dropped, and
// end <= start yields nil.
func Materialize(start, end WallClock, duration int) []Interval {
	if duration <= 0 || !start.Before(end) {
		return nil
	}
	var out []Interval
	for cursor := start; ; {
		next, ok := cursor.Add(duration)
		if !ok || next.After(end) {
			break
		}
		out = append(out, Interval{Start: cursor, End: next})
		cursor = next
	}
	return out
}

// Slots materializes the plan for rule into available slots, one batch for
// every expanded date.
func (p *Plan) Slots(rule *RecurrenceRule) []*Slot {
	windows := Materialize(p.Start, p.End, p.Duration)
	if len(windows) == 0 {
		return nil
	}
	dates := p.Dates()
	slots := make([]*Slot, 0, len(dates)*len(windows))
	for _, d := range dates {
		for _, w := range windows {
			slots = append(slots, &Slot{
				DoctorID:         rule.DoctorID,
				RecurrenceRuleID: rule.ID,
				Date:             d,
				StartTime:        w.Start,
				EndTime:          w.End,
				SlotDuration:     p.Duration,
				Status:           SlotAvailable,
			})
		}
	}
	return slots
}
