package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/media"
	"github.com/medibook/booking-api/pkg/security"
)

// Service backs the admin panel: doctor onboarding and system-wide views.
type Service struct {
	doctors      repository.DoctorRepository
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	hasher       security.PasswordHasher
	media        media.Store
}

func NewService(
	doctors repository.DoctorRepository,
	users repository.UserRepository,
	appointments repository.AppointmentRepository,
	hasher security.PasswordHasher,
	mediaStore media.Store,
) *Service {
	return &Service{
		doctors:      doctors,
		users:        users,
		appointments: appointments,
		hasher:       hasher,
		media:        mediaStore,
	}
}

// AddDoctor onboards a doctor. A profile image is optional; when present
// it is uploaded before the record is created.
func (s *Service) AddDoctor(ctx context.Context, req *model.AddDoctorRequest, image io.Reader, imageSize int64, imageType string) (*model.Doctor, error) {
	existing, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("doctor email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return nil, apperror.Invalid("password too short", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	doctor := &model.Doctor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Speciality:   req.Speciality,
		Degree:       req.Degree,
		Experience:   req.Experience,
		About:        req.About,
		Fees:         req.Fees,
		Available:    true,
		Address:      req.Address,
	}

	if image != nil {
		name := fmt.Sprintf("doctors/%s-%d", req.Email, time.Now().Unix())
		url, err := s.media.Upload(ctx, name, image, imageSize, imageType)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		doctor.Image = url
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, apperror.Internal(err)
	}

	doctor.PasswordHash = ""
	return doctor, nil
}

// ListDoctors returns all doctors with credentials stripped.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for _, d := range doctors {
		d.PasswordHash = ""
	}
	return doctors, nil
}

// Dashboard aggregates system-wide counts for the admin panel.
func (s *Service) Dashboard(ctx context.Context) (*model.AdminDashboard, error) {
	doctorCount, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	patientCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	appointments, err := s.appointments.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	latest := appointments
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &model.AdminDashboard{
		Doctors:            doctorCount,
		Appointments:       len(appointments),
		Patients:           patientCount,
		LatestAppointments: latest,
	}, nil
}
