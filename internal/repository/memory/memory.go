// Package memory provides in-memory repository implementations backed by a
// shared store. They honor the same contracts as the postgres repositories,
// including the conditional slot reserve, and are safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

type Store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*model.User
	doctors      map[uuid.UUID]*model.Doctor
	appointments map[uuid.UUID]*model.Appointment
	slots        map[string]*model.SlotReservation
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*model.User),
		doctors:      make(map[uuid.UUID]*model.Doctor),
		appointments: make(map[uuid.UUID]*model.Appointment),
		slots:        make(map[string]*model.SlotReservation),
	}
}

func (s *Store) Users() repository.UserRepository               { return &userRepo{s} }
func (s *Store) Doctors() repository.DoctorRepository           { return &doctorRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepo{s} }
func (s *Store) Slots() repository.SlotRepository               { return &slotRepo{s} }

func slotKey(doctorID uuid.UUID, slotDate, slotTime string) string {
	return fmt.Sprintf("%s/%s/%s", doctorID, slotDate, slotTime)
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	r.s.users[user.ID] = &copied
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.s.users[user.ID] = &copied
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

type doctorRepo struct{ s *Store }

func (r *doctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()
	copied := *doctor
	r.s.doctors[doctor.ID] = &copied
	return nil
}

func (r *doctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doctor, ok := r.s.doctors[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	copied := *doctor
	return &copied, nil
}

func (r *doctorRepo) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, doctor := range r.s.doctors {
		if doctor.Email == email {
			copied := *doctor
			return &copied, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *doctorRepo) Update(ctx context.Context, doctor *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.doctors[doctor.ID]; !ok {
		return repository.ErrNoRows
	}
	doctor.UpdatedAt = time.Now()
	copied := *doctor
	r.s.doctors[doctor.ID] = &copied
	return nil
}

func (r *doctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doctors := make([]*model.Doctor, 0, len(r.s.doctors))
	for _, doctor := range r.s.doctors {
		copied := *doctor
		doctors = append(doctors, &copied)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Name < doctors[j].Name })
	return doctors, nil
}

func (r *doctorRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.doctors), nil
}

type appointmentRepo struct{ s *Store }

func (r *appointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()
	copied := *apt
	r.s.appointments[apt.ID] = &copied
	return nil
}

func (r *appointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	apt, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	copied := *apt
	return &copied, nil
}

func (r *appointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[apt.ID]; !ok {
		return repository.ErrNoRows
	}
	apt.UpdatedAt = time.Now()
	copied := *apt
	r.s.appointments[apt.ID] = &copied
	return nil
}

func (r *appointmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	return r.list(func(a *model.Appointment) bool { return a.UserID == userID })
}

func (r *appointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return r.list(func(a *model.Appointment) bool { return a.DoctorID == doctorID })
}

func (r *appointmentRepo) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	return r.list(func(*model.Appointment) bool { return true })
}

func (r *appointmentRepo) list(match func(*model.Appointment) bool) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var appointments []*model.Appointment
	for _, apt := range r.s.appointments {
		if match(apt) {
			copied := *apt
			appointments = append(appointments, &copied)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].BookedAt.After(appointments[j].BookedAt)
	})
	return appointments, nil
}

type slotRepo struct{ s *Store }

func (r *slotRepo) Reserve(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := slotKey(doctorID, slotDate, slotTime)
	if _, taken := r.s.slots[key]; taken {
		return false, nil
	}
	r.s.slots[key] = &model.SlotReservation{
		DoctorID:  doctorID,
		SlotDate:  slotDate,
		SlotTime:  slotTime,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (r *slotRepo) Confirm(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string, appointmentID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reservation, ok := r.s.slots[slotKey(doctorID, slotDate, slotTime)]
	if !ok {
		return repository.ErrNoRows
	}
	id := appointmentID
	reservation.AppointmentID = &id
	return nil
}

func (r *slotRepo) Release(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.slots, slotKey(doctorID, slotDate, slotTime))
	return nil
}

func (r *slotRepo) Exists(ctx context.Context, doctorID uuid.UUID, slotDate, slotTime string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.slots[slotKey(doctorID, slotDate, slotTime)]
	return ok, nil
}

func (r *slotRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.SlotReservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var reservations []*model.SlotReservation
	for _, reservation := range r.s.slots {
		if reservation.DoctorID == doctorID {
			copied := *reservation
			reservations = append(reservations, &copied)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].SlotDate != reservations[j].SlotDate {
			return reservations[i].SlotDate < reservations[j].SlotDate
		}
		return reservations[i].SlotTime < reservations[j].SlotTime
	})
	return reservations, nil
}

func (r *slotRepo) DeleteOrphans(ctx context.Context, olderThan time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for key, reservation := range r.s.slots {
		if !reservation.CreatedAt.Before(olderThan) {
			continue
		}
		if r.hasActiveAppointment(reservation) {
			continue
		}
		delete(r.s.slots, key)
		deleted++
	}
	return deleted, nil
}

func (r *slotRepo) hasActiveAppointment(reservation *model.SlotReservation) bool {
	for _, apt := range r.s.appointments {
		if apt.DoctorID == reservation.DoctorID &&
			apt.SlotDate == reservation.SlotDate &&
			apt.SlotTime == reservation.SlotTime &&
			!apt.Cancelled {
			return true
		}
	}
	return false
}
