package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotBooked      SlotStatus = "booked"
	SlotUnavailable SlotStatus = "unavailable"
)

// RecurrenceRule records one slot generation request. It is written once
// and never updated.
type RecurrenceRule struct {
	ID             uuid.UUID  `json:"id"`
	DoctorID       uuid.UUID  `json:"doctor_id"`
	StartTime      WallClock  `json:"start_time"`
	EndTime        WallClock  `json:"end_time"`
	SlotDuration   int        `json:"slot_duration"`
	RecurrenceType Kind       `json:"recurrence_type"`
	RecurrenceRule *string    `json:"recurrence_rule,omitempty"`
	Weekdays       []string   `json:"weekdays,omitempty"`
	RepeatUntil    *time.Time `json:"repeat_until,omitempty"`
	OneTimeDate    *time.Time `json:"one_time_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Slot is a bookable window on one date. Status moves from available to
// booked at most once.
type Slot struct {
	ID               uuid.UUID  `json:"id"`
	DoctorID         uuid.UUID  `json:"doctor_id"`
	RecurrenceRuleID uuid.UUID  `json:"recurrence_rule_id"`
	Date             time.Time  `json:"date"`
	StartTime        WallClock  `json:"start_time"`
	EndTime          WallClock  `json:"end_time"`
	SlotDuration     int        `json:"slot_duration"`
	Status           SlotStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Patient struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Booking struct {
	ID          uuid.UUID `json:"id"`
	SlotID      uuid.UUID `json:"slot_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	Reason      string    `json:"reason"`
	BookingTime time.Time `json:"booking_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingView is a booking joined with its slot and patient for listings.
type BookingView struct {
	ID          uuid.UUID      `json:"id"`
	Reason      string         `json:"reason"`
	BookingTime time.Time      `json:"booking_time"`
	Slot        BookingSlot    `json:"slot"`
	Patient     BookingPatient `json:"patient"`
}

type BookingSlot struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	StartTime WallClock `json:"start_time"`
	EndTime   WallClock `json:"end_time"`
}

type BookingPatient struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
}

// PatientDetails identifies the person booking a slot.
type PatientDetails struct {
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
}

// CreateResult summarizes a slot generation.
type CreateResult struct {
	RecurrenceID uuid.UUID `json:"recurrence_id"`
	SlotCount    int       `json:"slot_count"`
}

// BookingResult is the confirmation returned after a successful booking.
type BookingResult struct {
	BookingID   uuid.UUID      `json:"booking_id"`
	BookingTime time.Time      `json:"booking_time"`
	Patient     PatientSummary `json:"patient"`
	Slot        SlotSummary    `json:"slot"`
}

type PatientSummary struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
}

type SlotSummary struct {
	StartTime WallClock  `json:"start_time"`
	EndTime   WallClock  `json:"end_time"`
	Date      time.Time  `json:"date"`
	Status    SlotStatus `json:"status"`
}
