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

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, email, password_hash, image, speciality, degree,
			experience, about, fees, available, address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Image,
		doctor.Speciality,
		doctor.Degree,
		doctor.Experience,
		doctor.About,
		doctor.Fees,
		doctor.Available,
		doctor.Address,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, email, password_hash, image, speciality, degree,
			   experience, about, fees, available, address, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `
		SELECT id, name, email, password_hash, image, speciality, degree,
			   experience, about, fees, available, address, created_at, updated_at
		FROM doctors
		WHERE email = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET fees = $1, available = $2, address = $3, about = $4,
			image = $5, updated_at = $6
		WHERE id = $7
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Fees,
		doctor.Available,
		doctor.Address,
		doctor.About,
		doctor.Image,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
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

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, email, password_hash, image, speciality, degree,
			   experience, about, fees, available, address, created_at, updated_at
		FROM doctors
		ORDER BY created_at DESC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors`); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}
