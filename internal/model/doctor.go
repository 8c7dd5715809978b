package model

// SlotsBooked maps a date key ("2006-01-02") to the time keys ("15:04")
// already reserved on that date. It is a projection of the slot ledger,
// not a stored column on the doctor row.
type SlotsBooked map[string][]string

// Doctor is a clinician profile. The availability flag gates new bookings;
// the booked slots live in the ledger and are joined in for display.
type Doctor struct {
	Base
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email,omitempty"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Image        string      `db:"image" json:"image,omitempty"`
	Speciality   string      `db:"speciality" json:"speciality"`
	Degree       string      `db:"degree" json:"degree"`
	Experience   string      `db:"experience" json:"experience"`
	About        string      `db:"about" json:"about"`
	Fees         int64       `db:"fees" json:"fees"`
	Available    bool        `db:"available" json:"available"`
	Address      Address     `db:"address" json:"address"`
	SlotsBooked  SlotsBooked `db:"-" json:"slots_booked,omitempty"`
}

// Snapshot returns the public doctor data denormalized into an appointment
// record at booking time. Credentials and the slot map are excluded.
func (d *Doctor) Snapshot() JSONMap {
	return JSONMap{
		"id":         d.ID.String(),
		"name":       d.Name,
		"image":      d.Image,
		"speciality": d.Speciality,
		"degree":     d.Degree,
		"experience": d.Experience,
		"about":      d.About,
		"fees":       d.Fees,
		"address":    map[string]interface{}{"line1": d.Address.Line1, "line2": d.Address.Line2},
	}
}

// AddDoctorRequest binds from JSON or from a multipart form when a
// profile image is attached.
type AddDoctorRequest struct {
	Name       string  `json:"name" form:"name" binding:"required"`
	Email      string  `json:"email" form:"email" binding:"required,email"`
	Password   string  `json:"password" form:"password" binding:"required,min=8"`
	Speciality string  `json:"speciality" form:"speciality" binding:"required"`
	Degree     string  `json:"degree" form:"degree" binding:"required"`
	Experience string  `json:"experience" form:"experience" binding:"required"`
	About      string  `json:"about" form:"about" binding:"required"`
	Fees       int64   `json:"fees" form:"fees" binding:"required,gt=0"`
	Address    Address `json:"address" form:"address"`
}

type UpdateDoctorProfileRequest struct {
	Fees      *int64   `json:"fees"`
	Address   *Address `json:"address"`
	Available *bool    `json:"available"`
}

// DoctorDashboard aggregates a doctor's activity for the doctor panel.
type DoctorDashboard struct {
	Earnings           int64          `json:"earnings"`
	Appointments       int            `json:"appointments"`
	Patients           int            `json:"patients"`
	LatestAppointments []*Appointment `json:"latest_appointments"`
}

// AdminDashboard aggregates system-wide counts for the admin panel.
type AdminDashboard struct {
	Doctors            int            `json:"doctors"`
	Appointments       int            `json:"appointments"`
	Patients           int            `json:"patients"`
	LatestAppointments []*Appointment `json:"latest_appointments"`
}
