package model

// User is a patient account. PasswordHash is never serialized.
type User struct {
	Base
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Image        string  `db:"image" json:"image,omitempty"`
	Phone        string  `db:"phone" json:"phone,omitempty"`
	Address      Address `db:"address" json:"address"`
	Gender       string  `db:"gender" json:"gender,omitempty"`
	DOB          string  `db:"dob" json:"dob,omitempty"`
}

// Snapshot returns the public user data denormalized into an appointment
// record at booking time. Credential fields are excluded.
func (u *User) Snapshot() JSONMap {
	return JSONMap{
		"id":      u.ID.String(),
		"name":    u.Name,
		"email":   u.Email,
		"image":   u.Image,
		"phone":   u.Phone,
		"gender":  u.Gender,
		"dob":     u.DOB,
		"address": map[string]interface{}{"line1": u.Address.Line1, "line2": u.Address.Line2},
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Address Address `json:"address"`
	Gender  string  `json:"gender" binding:"required"`
	DOB     string  `json:"dob" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
