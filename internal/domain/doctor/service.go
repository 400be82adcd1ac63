package doctor

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Service struct {
	doctors DoctorRepository
	logger  zerolog.Logger
}

func NewService(doctors DoctorRepository, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, logger: logger}
}

// Validate trims d in place and checks the registration fields.
func Validate(d *Doctor) error {
	d.Username = strings.TrimSpace(d.Username)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	switch {
	case d.Username == "":
		return apperror.Field(apperror.KindValidation, "username", "username is required")
	case !usernamePattern.MatchString(d.Username):
		return apperror.Field(apperror.KindValidation, "username",
			"username can only contain letters, numbers, and underscores")
	case d.FirstName == "":
		return apperror.Field(apperror.KindValidation, "first_name", "first_name is required")
	case d.LastName == "":
		return apperror.Field(apperror.KindValidation, "last_name", "last_name is required")
	case d.Email == "":
		return apperror.Field(apperror.KindValidation, "email", "email is required")
	case !emailPattern.MatchString(d.Email):
		return apperror.Field(apperror.KindValidation, "email", "invalid email format")
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if err := Validate(d); err != nil {
		return err
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return err
	}
	s.logger.Info().
		Str("doctor_id", d.ID.String()).
		Str("username", d.Username).
		Msg("doctor registered")
	return nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// Exists reports whether a doctor with id is registered.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.doctors.Exists(ctx, id)
}
