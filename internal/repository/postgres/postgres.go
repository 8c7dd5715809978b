package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/medibook/booking-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type slotRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewSlotRepository(db *sqlx.DB) repository.SlotRepository {
	return &slotRepository{db: db}
}
