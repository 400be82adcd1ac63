package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RecurrenceRuleRepository interface {
	// Create assigns r.ID and r.CreatedAt.
	Create(ctx context.Context, r *RecurrenceRule) error
}

type SlotRepository interface {
	// BulkInsert assigns IDs and stores all slots or none.
	BulkInsert(ctx context.Context, slots []*Slot) error
	FindAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Slot, error)
	// Claim moves an available slot to booked and returns it. It returns a
	// nil slot when id does not name an available slot.
	Claim(ctx context.Context, id uuid.UUID) (*Slot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
}

type PatientRepository interface {
	// FindByEmail returns nil when no patient has email.
	FindByEmail(ctx context.Context, email string) (*Patient, error)
	// Create fails with a duplicate key error naming email or mobile_number.
	Create(ctx context.Context, p *Patient) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	// FindByTimeRangeAndDoctor lists bookings whose booking time lies in
	// [start, end] on slots of doctorID, with the total match count.
	FindByTimeRangeAndDoctor(ctx context.Context, doctorID uuid.UUID, start, end time.Time, limit, offset int) ([]*BookingView, int, error)
}

// Transactor runs fn so that every repository call made with the context it
// receives commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type DoctorLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
