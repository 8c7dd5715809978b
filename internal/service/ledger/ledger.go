package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/metrics"
)

// Service is the slot ledger: the authoritative record of which
// (doctor, date, time) slots are reserved. Reserve and Release are atomic
// per slot; the storage layer's conditional insert guarantees that two
// concurrent reservations of the same slot cannot both succeed.
type Service struct {
	repo    repository.SlotRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.SlotRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// ValidateSlotKey checks the date and time key formats.
func ValidateSlotKey(slotDate, slotTime string) error {
	if _, err := time.Parse(model.SlotDateFormat, slotDate); err != nil {
		return apperror.Invalid(fmt.Sprintf("invalid slot date %q, want YYYY-MM-DD", slotDate), err)
	}
	if _, err := time.Parse(model.SlotTimeFormat, slotTime); err != nil {
		return apperror.Invalid(fmt.Sprintf("invalid slot time %q, want HH:MM", slotTime), err)
	}
	return nil
}

// IsFree reports whether the slot is not reserved. An absent date counts
// as free.
func (s *Service) IsFree(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	exists, err := s.repo.Exists(ctx, doctorID, slotDate, slotTime)
	if err != nil {
		return false, apperror.Internal(err)
	}
	return !exists, nil
}

// Reserve inserts the slot, failing with a Conflict if it is already taken.
func (s *Service) Reserve(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) error {
	inserted, err := s.repo.Reserve(ctx, doctorID, slotDate, slotTime)
	if err != nil {
		return apperror.Internal(err)
	}
	if !inserted {
		return apperror.Conflict("slot not available", nil)
	}
	if s.metrics != nil {
		s.metrics.SlotsReserved.Inc()
	}
	return nil
}

// Confirm binds a reservation to the appointment that pays for it. A
// confirmed reservation is immune to the orphan sweep.
func (s *Service) Confirm(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string, appointmentID uuid.UUID) error {
	if err := s.repo.Confirm(ctx, doctorID, slotDate, slotTime, appointmentID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Release removes the slot. Releasing an absent slot is a no-op.
func (s *Service) Release(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) error {
	if err := s.repo.Release(ctx, doctorID, slotDate, slotTime); err != nil {
		return apperror.Internal(err)
	}
	if s.metrics != nil {
		s.metrics.SlotsReleased.Inc()
	}
	return nil
}

// SlotsBooked projects the ledger into the per-date map the availability
// calendar renders.
func (s *Service) SlotsBooked(ctx context.Context, doctorID uuid.UUID) (model.SlotsBooked, error) {
	reservations, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	booked := make(model.SlotsBooked)
	for _, r := range reservations {
		booked[r.SlotDate] = append(booked[r.SlotDate], r.SlotTime)
	}
	return booked, nil
}

// ReleaseOrphans reclaims reservations older than the grace period that
// have no matching active appointment.
func (s *Service) ReleaseOrphans(ctx context.Context, grace time.Duration) (int64, error) {
	n, err := s.repo.DeleteOrphans(ctx, time.Now().Add(-grace))
	if err != nil {
		return 0, apperror.Internal(err)
	}
	if s.metrics != nil && n > 0 {
		s.metrics.OrphansReleased.Add(float64(n))
	}
	return n, nil
}
