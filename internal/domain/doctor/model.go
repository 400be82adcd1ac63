package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a practitioner whose time is offered as bookable slots.
type Doctor struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
