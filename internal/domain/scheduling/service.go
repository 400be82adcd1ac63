package scheduling

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

type Service struct {
	rules    RecurrenceRuleRepository
	slots    SlotRepository
	patients PatientRepository
	bookings BookingRepository
	tx       Transactor
	doctors  DoctorLookup
	cache    *SlotCache
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(rules RecurrenceRuleRepository, slots SlotRepository, patients PatientRepository,
	bookings BookingRepository, tx Transactor, doctors DoctorLookup, cache *SlotCache, logger zerolog.Logger) *Service {
	return &Service{
		rules:    rules,
		slots:    slots,
		patients: patients,
		bookings: bookings,
		tx:       tx,
		doctors:  doctors,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// -- Slot generation --

// CreateRecurringSlots validates spec, records the rule and inserts every
// generated slot in one transaction. Invalid input writes nothing.
func (s *Service) CreateRecurringSlots(ctx context.Context, doctorID uuid.UUID, spec RecurrenceSpec) (*CreateResult, error) {
	plan, err := BuildPlan(spec)
	if err != nil {
		return nil, err
	}

	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.Newf(apperror.KindNotFound, "doctor %s not found", doctorID)
	}

	rule := plan.Rule(doctorID)
	var slots []*Slot
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.rules.Create(ctx, rule); err != nil {
			return err
		}
		slots = plan.Slots(rule)
		return s.slots.BulkInsert(ctx, slots)
	})
	if err != nil {
		return nil, fmt.Errorf("create recurring slots: %w", err)
	}

	s.cache.Invalidate(doctorID, plan.Dates()...)

	s.logger.Info().
		Str("recurrence_id", rule.ID.String()).
		Str("doctor_id", doctorID.String()).
		Str("recurrence_type", string(plan.Kind)).
		Int("slot_count", len(slots)).
		Msg("recurring slots created")

	return &CreateResult{RecurrenceID: rule.ID, SlotCount: len(slots)}, nil
}

// -- Availability --

// ListAvailableSlots returns the available slots of doctorID on the UTC
// calendar date of date, ordered by start time.
func (s *Service) ListAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Slot, error) {
	date = DateOf(date)
	if cached, ok := s.cache.Get(doctorID, date); ok {
		return cached, nil
	}

	gen := s.cache.Generation()
	slots, err := s.slots.FindAvailable(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	s.cache.Put(doctorID, date, slots, gen)
	return slots, nil
}

// -- Booking --

func validatePatient(p *PatientDetails) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.MobileNumber = strings.TrimSpace(p.MobileNumber)

	switch {
	case p.FirstName == "":
		return apperror.Field(apperror.KindValidation, "first_name", "first_name is required")
	case p.LastName == "":
		return apperror.Field(apperror.KindValidation, "last_name", "last_name is required")
	case p.Email == "":
		return apperror.Field(apperror.KindValidation, "email", "email is required")
	case !emailPattern.MatchString(p.Email):
		return apperror.Field(apperror.KindValidation, "email", "please enter a valid email address")
	case !mobilePattern.MatchString(p.MobileNumber):
		return apperror.Field(apperror.KindValidation, "mobile_number", "please enter a valid 10-digit mobile number")
	}
	return nil
}

// BookSlot claims slotID for the patient and records the booking. The claim,
// patient creation and booking commit together; any failure leaves the slot
// available. A patient already known by email is reused unchanged.
func (s *Service) BookSlot(ctx context.Context, slotID uuid.UUID, details PatientDetails, reason string) (*BookingResult, error) {
	if err := validatePatient(&details); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Field(apperror.KindValidation, "reason", "reason is required")
	}

	var (
		slot    *Slot
		patient *Patient
		booking *Booking
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		slot, err = s.slots.Claim(ctx, slotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return apperror.New(apperror.KindSlotUnavailable, "Slot not available")
		}

		patient, err = s.patients.FindByEmail(ctx, details.Email)
		if err != nil {
			return err
		}
		if patient == nil {
			patient = &Patient{
				FirstName:    details.FirstName,
				LastName:     details.LastName,
				Email:        details.Email,
				MobileNumber: details.MobileNumber,
			}
			if err := s.patients.Create(ctx, patient); err != nil {
				return err
			}
		}

		booking = &Booking{
			SlotID:      slot.ID,
			PatientID:   patient.ID,
			Reason:      reason,
			BookingTime: s.now().UTC(),
		}
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrSlotUnavailable) {
			s.logger.Warn().Str("slot_id", slotID.String()).Msg("slot claim missed")
			return nil, err
		}
		return nil, fmt.Errorf("book slot: %w", err)
	}

	s.cache.Invalidate(slot.DoctorID, slot.Date)

	s.logger.Info().
		Str("booking_id", booking.ID.String()).
		Str("slot_id", slot.ID.String()).
		Str("patient_id", patient.ID.String()).
		Msg("slot booked")

	return &BookingResult{
		BookingID:   booking.ID,
		BookingTime: booking.BookingTime,
		Patient: PatientSummary{
			Name:         patient.FullName(),
			Email:        patient.Email,
			MobileNumber: patient.MobileNumber,
		},
		Slot: SlotSummary{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Date:      slot.Date,
			Status:    slot.Status,
		},
	}, nil
}

// -- Booking listing --

// ListBookings returns bookings made within [start, end] on doctorID's
// slots, plus the total match count.
func (s *Service) ListBookings(ctx context.Context, doctorID uuid.UUID, start, end time.Time, limit, offset int) ([]*BookingView, int, error) {
	if end.Before(start) {
		return nil, 0, apperror.Field(apperror.KindValidation, "end_date", "end_date must not be before start_date")
	}
	return s.bookings.FindByTimeRangeAndDoctor(ctx, doctorID, start.UTC(), end.UTC(), limit, offset)
}

// GetSlot returns a slot by id.
func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error) {
	return s.slots.GetByID(ctx, id)
}
