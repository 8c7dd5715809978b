package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot date/time key formats. Slots are keyed by (date, time) rather than a
// single timestamp to mirror how the availability calendar is displayed;
// grouping by date keeps per-day sets small.
const (
	SlotDateFormat = "2006-01-02"
	SlotTimeFormat = "15:04"
)

// Appointment is one booked slot. It carries denormalized snapshots of the
// user and doctor taken at booking time so historical listings survive later
// profile edits. Appointments are soft-cancelled, never deleted.
type Appointment struct {
	Base
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	UserData    JSONMap   `db:"user_data" json:"user_data"`
	DoctorData  JSONMap   `db:"doctor_data" json:"doctor_data"`
	SlotDate    string    `db:"slot_date" json:"slot_date"`
	SlotTime    string    `db:"slot_time" json:"slot_time"`
	Amount      int64     `db:"amount" json:"amount"`
	Cancelled   bool      `db:"cancelled" json:"cancelled"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	Payment     bool      `db:"payment" json:"payment"`
	BookedAt    time.Time `db:"booked_at" json:"booked_at"`
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
	SlotDate string `json:"slot_date" binding:"required,slotdate"`
	SlotTime string `json:"slot_time" binding:"required,slottime"`
}

type PaymentOrderRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}

type PaymentVerifyRequest struct {
	ChargeID string `json:"charge_id" binding:"required"`
}

// AppointmentEvent is the payload published on the message broker when an
// appointment changes state.
type AppointmentEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	UserID        uuid.UUID `json:"user_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	SlotDate      string    `json:"slot_date"`
	SlotTime      string    `json:"slot_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SlotReservation is one row in the slot ledger. AppointmentID is nil
// between reserve and confirm; the sweep reclaims rows that stay that way.
type SlotReservation struct {
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	SlotDate      string     `db:"slot_date" json:"slot_date"`
	SlotTime      string     `db:"slot_time" json:"slot_time"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
