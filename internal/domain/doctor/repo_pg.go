package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/db"
)

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const doctorCols = `id, username, first_name, last_name, email, created_at, updated_at`

// Unique constraints on the doctor table and the request field each guards.
var doctorConstraintFields = map[string]string{
	"doctor_username_key": "username",
	"doctor_email_key":    "email",
}

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Username, &d.FirstName, &d.LastName, &d.Email, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor (id, username, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		d.ID, d.Username, d.FirstName, d.LastName, d.Email).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			field := doctorConstraintFields[constraint]
			if field == "" {
				field = constraint
			}
			value := d.Username
			if field == "email" {
				value = d.Email
			}
			return apperror.DuplicateKey(field, value, err)
		}
		return apperror.Wrap(apperror.KindPersistence, err, "insert doctor")
	}
	return nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperror.Newf(apperror.KindNotFound, "doctor %s not found", id)
		}
		return nil, apperror.Wrap(apperror.KindPersistence, err, "get doctor")
	}
	return d, nil
}

func (r *doctorRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperror.Wrap(apperror.KindPersistence, err, "check doctor")
	}
	return exists, nil
}
