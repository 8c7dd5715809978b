package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/service/ledger"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/messaging"
	"github.com/medibook/booking-api/pkg/metrics"
)

// Actor identifies who asked for a cancellation; ownership checks differ
// per actor.
type Actor string

const (
	ActorUser   Actor = "user"
	ActorDoctor Actor = "doctor"
	ActorAdmin  Actor = "admin"
)

// Service orchestrates booking, cancellation and completion, keeping the
// slot ledger and the appointment records consistent.
type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	users        repository.UserRepository
	ledger       *ledger.Service
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	users repository.UserRepository,
	ledgerSvc *ledger.Service,
	broker messaging.Broker,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		users:        users,
		ledger:       ledgerSvc,
		broker:       broker,
		metrics:      m,
		logger:       log,
	}
}

// Book reserves the slot and creates the appointment record. The ledger
// reservation is the atomic step: of two concurrent bookings for the same
// slot exactly one passes Reserve, so the advisory IsFree pre-check never
// needs a retry loop.
func (s *Service) Book(ctx context.Context, userID, doctorID uuid.UUID, slotDate, slotTime string) (*model.Appointment, error) {
	start := time.Now()

	if err := ledger.ValidateSlotKey(slotDate, slotTime); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.NotFound("doctor", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if !doctor.Available {
		return nil, apperror.Unavailable("doctor not available")
	}

	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.NotFound("user", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	free, err := s.ledger.IsFree(ctx, doctorID, slotDate, slotTime)
	if err != nil {
		return nil, err
	}
	if !free {
		if s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, apperror.Conflict("slot not available", nil)
	}

	if err := s.ledger.Reserve(ctx, doctorID, slotDate, slotTime); err != nil {
		if apperror.IsKind(err, apperror.KindConflict) && s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	apt := &model.Appointment{
		Base:       model.Base{ID: uuid.New()},
		UserID:     userID,
		DoctorID:   doctorID,
		UserData:   user.Snapshot(),
		DoctorData: doctor.Snapshot(),
		SlotDate:   slotDate,
		SlotTime:   slotTime,
		Amount:     doctor.Fees,
		BookedAt:   time.Now(),
	}

	if err := s.appointments.Create(ctx, apt); err != nil {
		// Undo the reservation so the slot does not stay blocked without a
		// record. If the release itself fails, the orphan sweep reclaims it.
		if relErr := s.ledger.Release(ctx, doctorID, slotDate, slotTime); relErr != nil {
			s.logger.Error(relErr, "failed to release slot after create failure",
				"doctor_id", doctorID.String(), "slot_date", slotDate, "slot_time", slotTime)
		}
		return nil, apperror.Internal(err)
	}

	if err := s.ledger.Confirm(ctx, doctorID, slotDate, slotTime, apt.ID); err != nil {
		// The appointment exists, so the sweep will not reclaim this row;
		// the confirmation is retried implicitly by being derivable.
		s.logger.Error(err, "failed to confirm reservation", "appointment_id", apt.ID.String())
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.Inc()
		s.metrics.BookingLatency.Observe(time.Since(start).Seconds())
	}
	s.publish(ctx, messaging.ChannelAppointmentBooked, apt)

	return apt, nil
}

// Cancel soft-cancels an appointment and frees its slot. Re-cancelling an
// already-cancelled appointment is an explicit Conflict, not a no-op.
func (s *Service) Cancel(ctx context.Context, requesterID, appointmentID uuid.UUID, actor Actor) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if errors.Is(err, repository.ErrNoRows) {
		return apperror.NotFound("appointment", err)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	switch actor {
	case ActorUser:
		if apt.UserID != requesterID {
			return apperror.Unauthorized("appointment belongs to another user")
		}
	case ActorDoctor:
		if apt.DoctorID != requesterID {
			return apperror.Unauthorized("appointment belongs to another doctor")
		}
	case ActorAdmin:
		// admins may cancel any appointment
	default:
		return apperror.Unauthorized("unknown actor")
	}

	if apt.Cancelled {
		return apperror.Conflict("appointment already cancelled", nil)
	}

	apt.Cancelled = true
	if err := s.appointments.Update(ctx, apt); err != nil {
		return apperror.Internal(err)
	}

	// The record is cancelled even if the release fails; the orphan sweep
	// reclaims reservations whose appointment is cancelled.
	if err := s.ledger.Release(ctx, apt.DoctorID, apt.SlotDate, apt.SlotTime); err != nil {
		s.logger.Error(err, "failed to release slot on cancel", "appointment_id", apt.ID.String())
		return err
	}

	if s.metrics != nil {
		s.metrics.CancellationsTotal.WithLabelValues(string(actor)).Inc()
	}
	s.publish(ctx, messaging.ChannelAppointmentCancelled, apt)

	return nil
}

// Complete marks an appointment done. Only the owning doctor may complete
// it; the slot stays recorded as a historical booking.
func (s *Service) Complete(ctx context.Context, doctorID, appointmentID uuid.UUID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if errors.Is(err, repository.ErrNoRows) {
		return apperror.NotFound("appointment", err)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	if apt.DoctorID != doctorID {
		return apperror.Unauthorized("appointment belongs to another doctor")
	}

	if apt.Cancelled {
		return apperror.Conflict("cannot complete a cancelled appointment", nil)
	}
	if apt.IsCompleted {
		return apperror.Conflict("appointment already completed", nil)
	}

	apt.IsCompleted = true
	if err := s.appointments.Update(ctx, apt); err != nil {
		return apperror.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.CompletionsTotal.Inc()
	}
	s.publish(ctx, messaging.ChannelAppointmentCompleted, apt)

	return nil
}

// MarkPaid flips the payment flag after a gateway reports the charge paid.
func (s *Service) MarkPaid(ctx context.Context, appointmentID uuid.UUID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if errors.Is(err, repository.ErrNoRows) {
		return apperror.NotFound("appointment", err)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	if apt.Payment {
		return nil
	}

	apt.Payment = true
	if err := s.appointments.Update(ctx, apt); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return appointments, nil
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return appointments, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return appointments, nil
}

// publish sends a lifecycle event; failures are logged and never fail the
// request.
func (s *Service) publish(ctx context.Context, channel string, apt *model.Appointment) {
	if s.broker == nil {
		return
	}

	event := model.AppointmentEvent{
		AppointmentID: apt.ID,
		UserID:        apt.UserID,
		DoctorID:      apt.DoctorID,
		SlotDate:      apt.SlotDate,
		SlotTime:      apt.SlotTime,
		OccurredAt:    time.Now(),
	}
	if err := s.broker.Publish(ctx, channel, event); err != nil {
		s.logger.Warn("failed to publish appointment event",
			"channel", channel, "appointment_id", apt.ID.String(), "error", err.Error())
	}
}
