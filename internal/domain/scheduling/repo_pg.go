package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/db"
)

func persistence(err error, op string) error {
	return apperror.Wrap(apperror.KindPersistence, err, op)
}

// Check constraints of the schema and the request field each guards.
var checkConstraintFields = map[string]string{
	"recurrence_rule_start_time_check":      "start_time",
	"recurrence_rule_end_time_check":        "end_time",
	"recurrence_rule_slot_duration_check":   "slot_duration",
	"recurrence_rule_recurrence_type_check": "recurrence_type",
	"slot_slot_duration_check":              "slot_duration",
	"slot_status_check":                     "status",
	"patient_mobile_number_check":           "mobile_number",
}

// checkViolation translates a check constraint violation into a validation
// error on the guarded field. It returns nil for any other error.
func checkViolation(err error) error {
	constraint, ok := db.CheckViolation(err)
	if !ok {
		return nil
	}
	field := checkConstraintFields[constraint]
	if field == "" {
		field = constraint
	}
	return &apperror.Error{
		Kind:    apperror.KindValidation,
		Message: field + " is not valid",
		Field:   field,
		Err:     err,
	}
}

// =========== Recurrence Rule Repository ===========

type ruleRepoPG struct{ pool *pgxpool.Pool }

func NewRecurrenceRuleRepoPG(pool *pgxpool.Pool) RecurrenceRuleRepository {
	return &ruleRepoPG{pool: pool}
}

func (r *ruleRepoPG) Create(ctx context.Context, rule *RecurrenceRule) error {
	rule.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO recurrence_rule (id, doctor_id, start_time, end_time, slot_duration,
			recurrence_type, recurrence_rule, weekdays, repeat_until, one_time_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		rule.ID, rule.DoctorID, rule.StartTime.String(), rule.EndTime.String(), rule.SlotDuration,
		string(rule.RecurrenceType), rule.RecurrenceRule, rule.Weekdays, rule.RepeatUntil, rule.OneTimeDate,
	).Scan(&rule.CreatedAt)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return apperror.Newf(apperror.KindNotFound, "doctor %s not found", rule.DoctorID)
		}
		if verr := checkViolation(err); verr != nil {
			return verr
		}
		return persistence(err, "insert recurrence rule")
	}
	return nil
}

// =========== Slot Repository ===========

type slotRepoPG struct{ pool *pgxpool.Pool }

func NewSlotRepoPG(pool *pgxpool.Pool) SlotRepository { return &slotRepoPG{pool: pool} }

const slotCols = `id, doctor_id, recurrence_rule_id, date, start_time, end_time,
	slot_duration, status, created_at, updated_at`

var slotCopyCols = []string{
	"id", "doctor_id", "recurrence_rule_id", "date", "start_time", "end_time",
	"slot_duration", "status", "created_at", "updated_at",
}

func scanSlot(row pgx.Row) (*Slot, error) {
	var (
		s          Slot
		start, end string
		status     string
	)
	if err := row.Scan(&s.ID, &s.DoctorID, &s.RecurrenceRuleID, &s.Date, &start, &end,
		&s.SlotDuration, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := scanClocks(start, end, &s.StartTime, &s.EndTime); err != nil {
		return nil, err
	}
	s.Status = SlotStatus(status)
	s.Date = DateOf(s.Date)
	return &s, nil
}

func scanClocks(start, end string, dstStart, dstEnd *WallClock) error {
	var err error
	if *dstStart, err = ParseWallClock(start); err != nil {
		return err
	}
	*dstEnd, err = ParseWallClock(end)
	return err
}

// BulkInsert streams slots with COPY. Called inside a transaction it is
// all-or-nothing with the rest of the unit of work.
func (r *slotRepoPG) BulkInsert(ctx context.Context, slots []*Slot) error {
	if len(slots) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([][]interface{}, 0, len(slots))
	for _, s := range slots {
		s.ID = uuid.New()
		s.CreatedAt, s.UpdatedAt = now, now
		rows = append(rows, []interface{}{
			s.ID, s.DoctorID, s.RecurrenceRuleID, s.Date, s.StartTime.String(), s.EndTime.String(),
			s.SlotDuration, string(s.Status), s.CreatedAt, s.UpdatedAt,
		})
	}

	n, err := db.Conn(ctx, r.pool).CopyFrom(ctx, pgx.Identifier{"slot"}, slotCopyCols, pgx.CopyFromRows(rows))
	if err != nil {
		if verr := checkViolation(err); verr != nil {
			return verr
		}
		return persistence(err, "insert slots")
	}
	if int(n) != len(slots) {
		return apperror.Newf(apperror.KindPersistence, "insert slots: wrote %d of %d rows", n, len(slots))
	}
	return nil
}

func (r *slotRepoPG) FindAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Slot, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+slotCols+` FROM slot
		WHERE doctor_id = $1 AND date = $2 AND status = $3
		ORDER BY start_time`, doctorID, DateOf(date), string(SlotAvailable))
	if err != nil {
		return nil, persistence(err, "list available slots")
	}
	defer rows.Close()

	items := []*Slot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, persistence(err, "scan slot")
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(err, "list available slots")
	}
	return items, nil
}

// Claim is a single conditional UPDATE, so of any number of concurrent
// claimers exactly one sees the row come back.
func (r *slotRepoPG) Claim(ctx context.Context, id uuid.UUID) (*Slot, error) {
	s, err := scanSlot(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE slot SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+slotCols, id, string(SlotBooked), string(SlotAvailable)))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, persistence(err, "claim slot")
	}
	return s, nil
}

func (r *slotRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	s, err := scanSlot(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+slotCols+` FROM slot WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperror.Newf(apperror.KindNotFound, "slot %s not found", id)
		}
		return nil, persistence(err, "get slot")
	}
	return s, nil
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, first_name, last_name, email, mobile_number, created_at, updated_at`

func (r *patientRepoPG) FindByEmail(ctx context.Context, email string) (*Patient, error) {
	var p Patient
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE email = $1`, email).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.MobileNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, persistence(err, "find patient")
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient (id, first_name, last_name, email, mobile_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.Email, p.MobileNumber).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			switch constraint {
			case "patient_mobile_number_key":
				return apperror.DuplicateKey("mobile_number", p.MobileNumber, err)
			default:
				return apperror.DuplicateKey("email", p.Email, err)
			}
		}
		if verr := checkViolation(err); verr != nil {
			return verr
		}
		return persistence(err, "insert patient")
	}
	return nil
}

// =========== Booking Repository ===========

type bookingRepoPG struct{ pool *pgxpool.Pool }

func NewBookingRepoPG(pool *pgxpool.Pool) BookingRepository { return &bookingRepoPG{pool: pool} }

func (r *bookingRepoPG) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO booking (id, slot_id, patient_id, reason, booking_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		b.ID, b.SlotID, b.PatientID, b.Reason, b.BookingTime).Scan(&b.CreatedAt)
	if err != nil {
		return persistence(err, "insert booking")
	}
	return nil
}

const bookingRangeWhere = `
	FROM booking b
	JOIN slot s ON s.id = b.slot_id
	JOIN patient p ON p.id = b.patient_id
	WHERE s.doctor_id = $1 AND b.booking_time >= $2 AND b.booking_time <= $3`

func (r *bookingRepoPG) FindByTimeRangeAndDoctor(ctx context.Context, doctorID uuid.UUID, start, end time.Time, limit, offset int) ([]*BookingView, int, error) {
	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*)`+bookingRangeWhere, doctorID, start, end).Scan(&total); err != nil {
		return nil, 0, persistence(err, "count bookings")
	}

	rows, err := conn.Query(ctx, `
		SELECT b.id, b.reason, b.booking_time,
			s.id, s.date, s.start_time, s.end_time,
			p.id, p.first_name, p.last_name, p.email, p.mobile_number`+bookingRangeWhere+`
		ORDER BY b.booking_time, b.id
		LIMIT $4 OFFSET $5`, doctorID, start, end, limit, offset)
	if err != nil {
		return nil, 0, persistence(err, "list bookings")
	}
	defer rows.Close()

	items := []*BookingView{}
	for rows.Next() {
		var (
			v                    BookingView
			startClock, endClock string
		)
		if err := rows.Scan(&v.ID, &v.Reason, &v.BookingTime,
			&v.Slot.ID, &v.Slot.Date, &startClock, &endClock,
			&v.Patient.ID, &v.Patient.FirstName, &v.Patient.LastName, &v.Patient.Email, &v.Patient.MobileNumber); err != nil {
			return nil, 0, persistence(err, "scan booking")
		}
		if err := scanClocks(startClock, endClock, &v.Slot.StartTime, &v.Slot.EndTime); err != nil {
			return nil, 0, persistence(err, "scan booking")
		}
		v.Slot.Date = DateOf(v.Slot.Date)
		items = append(items, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, persistence(err, "list bookings")
	}
	return items, total, nil
}
