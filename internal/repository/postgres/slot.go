package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

// The slot_reservations table carries a UNIQUE (doctor_id, slot_date,
// slot_time) constraint. The conditional insert below is the concurrency
// control for the whole booking path: of two racing reservations for the
// same slot, exactly one row lands and the other insert affects zero rows.

func (r *slotRepository) Reserve(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	query := `
		INSERT INTO slot_reservations (doctor_id, slot_date, slot_time, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (doctor_id, slot_date, slot_time) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, doctorID, slotDate, slotTime, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to reserve slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func (r *slotRepository) Confirm(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string, appointmentID uuid.UUID) error {
	query := `
		UPDATE slot_reservations
		SET appointment_id = $1
		WHERE doctor_id = $2 AND slot_date = $3 AND slot_time = $4
	`
	result, err := r.db.ExecContext(ctx, query, appointmentID, doctorID, slotDate, slotTime)
	if err != nil {
		return fmt.Errorf("failed to confirm reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reservation for %s/%s %s vanished before confirm", doctorID, slotDate, slotTime)
	}
	return nil
}

func (r *slotRepository) Release(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) error {
	// Deleting an absent row is a no-op, which keeps release idempotent.
	query := `
		DELETE FROM slot_reservations
		WHERE doctor_id = $1 AND slot_date = $2 AND slot_time = $3
	`
	if _, err := r.db.ExecContext(ctx, query, doctorID, slotDate, slotTime); err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return nil
}

func (r *slotRepository) Exists(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM slot_reservations
			WHERE doctor_id = $1 AND slot_date = $2 AND slot_time = $3
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, doctorID, slotDate, slotTime); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return exists, nil
}

func (r *slotRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.SlotReservation, error) {
	query := `
		SELECT doctor_id, slot_date, slot_time, appointment_id, created_at
		FROM slot_reservations
		WHERE doctor_id = $1
		ORDER BY slot_date, slot_time
	`
	var reservations []*model.SlotReservation
	if err := r.db.SelectContext(ctx, &reservations, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// DeleteOrphans reclaims reservations with no matching active appointment:
// rows that never got confirmed within the grace period, and rows whose
// appointment was cancelled but whose release never landed.
func (r *slotRepository) DeleteOrphans(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM slot_reservations sr
		WHERE sr.created_at < $1
		AND NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.doctor_id = sr.doctor_id
			AND a.slot_date = sr.slot_date
			AND a.slot_time = sr.slot_time
			AND NOT a.cancelled
		)
	`
	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned reservations: %w", err)
	}
	return result.RowsAffected()
}
