package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

const appointmentColumns = `
	id, user_id, doctor_id, user_data, doctor_data, slot_date, slot_time,
	amount, cancelled, is_completed, payment, booked_at, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, user_id, doctor_id, user_data, doctor_data, slot_date, slot_time,
			amount, cancelled, is_completed, payment, booked_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.UserID,
		appointment.DoctorID,
		appointment.UserData,
		appointment.DoctorData,
		appointment.SlotDate,
		appointment.SlotTime,
		appointment.Amount,
		appointment.Cancelled,
		appointment.IsCompleted,
		appointment.Payment,
		appointment.BookedAt,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET cancelled = $1, is_completed = $2, payment = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Cancelled,
		appointment.IsCompleted,
		appointment.Payment,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE user_id = $1 ORDER BY booked_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE doctor_id = $1 ORDER BY booked_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY booked_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
