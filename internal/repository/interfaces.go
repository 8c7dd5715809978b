package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

// ErrNoRows is returned by Get-style methods when nothing matches.
var ErrNoRows = errors.New("no rows found")

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Count(ctx context.Context) (int, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Doctor, error)
		Count(ctx context.Context) (int, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
		ListAll(ctx context.Context) ([]*model.Appointment, error)
	}

	// SlotRepository is the persistence contract of the slot ledger. Reserve
	// is conditional: it reports false without error when the slot already
	// exists, which is what makes the read-check-write sequence safe under
	// concurrent bookings of the same (doctor, date, time).
	SlotRepository interface {
		Reserve(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error)
		Confirm(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string, appointmentID uuid.UUID) error
		Release(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) error
		Exists(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.SlotReservation, error)
		DeleteOrphans(ctx context.Context, olderThan time.Time) (int64, error)
	}
)
