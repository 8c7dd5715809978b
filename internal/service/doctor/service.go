package doctor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/service/ledger"
	"github.com/medibook/booking-api/pkg/apperror"
)

const (
	publicListCacheKey = "doctors:public"
	publicListCacheTTL = 30 * time.Second
)

// Service manages doctor profiles and availability. The public doctor
// list is the hottest read in the system and is served from a small
// in-process cache.
type Service struct {
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	ledger       *ledger.Service
	cache        *gocache.Cache
}

func NewService(doctors repository.DoctorRepository, appointments repository.AppointmentRepository, ledgerSvc *ledger.Service) *Service {
	return &Service{
		doctors:      doctors,
		appointments: appointments,
		ledger:       ledgerSvc,
		cache:        gocache.New(publicListCacheTTL, 2*publicListCacheTTL),
	}
}

// ListPublic returns all doctors with credentials and contact email
// stripped and the booked-slot calendar attached.
func (s *Service) ListPublic(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(publicListCacheKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	public := make([]*model.Doctor, 0, len(doctors))
	for _, d := range doctors {
		copied := *d
		copied.Email = ""
		copied.PasswordHash = ""

		booked, err := s.ledger.SlotsBooked(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		copied.SlotsBooked = booked
		public = append(public, &copied)
	}

	s.cache.Set(publicListCacheKey, public, publicListCacheTTL)
	return public, nil
}

// ToggleAvailability flips the booking gate and returns the new value.
func (s *Service) ToggleAvailability(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if errors.Is(err, repository.ErrNoRows) {
		return false, apperror.NotFound("doctor", err)
	}
	if err != nil {
		return false, apperror.Internal(err)
	}

	doctor.Available = !doctor.Available
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return false, apperror.Internal(err)
	}

	s.cache.Delete(publicListCacheKey)
	return doctor.Available, nil
}

func (s *Service) GetProfile(ctx context.Context, doctorID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.NotFound("doctor", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	booked, err := s.ledger.SlotsBooked(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	doctor.SlotsBooked = booked
	doctor.PasswordHash = ""
	return doctor, nil
}

func (s *Service) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *model.UpdateDoctorProfileRequest) error {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if errors.Is(err, repository.ErrNoRows) {
		return apperror.NotFound("doctor", err)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	if req.Fees != nil {
		if *req.Fees <= 0 {
			return apperror.Invalid("fees must be positive", nil)
		}
		doctor.Fees = *req.Fees
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return apperror.Internal(err)
	}

	s.cache.Delete(publicListCacheKey)
	return nil
}

// Dashboard aggregates a doctor's earnings and activity. Earnings count
// appointments that are completed or paid.
func (s *Service) Dashboard(ctx context.Context, doctorID uuid.UUID) (*model.DoctorDashboard, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var earnings int64
	patients := make(map[uuid.UUID]struct{})
	for _, apt := range appointments {
		if apt.IsCompleted || apt.Payment {
			earnings += apt.Amount
		}
		patients[apt.UserID] = struct{}{}
	}

	latest := appointments
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &model.DoctorDashboard{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           len(patients),
		LatestAppointments: latest,
	}, nil
}
