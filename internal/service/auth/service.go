package auth

import (
	"context"
	"errors"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/security"
)

// AdminCredentials is the single admin account, configured rather than
// stored.
type AdminCredentials struct {
	Email    string
	Password string
}

// Service authenticates patients, doctors and the admin, and issues
// bearer tokens.
type Service struct {
	users   repository.UserRepository
	doctors repository.DoctorRepository
	hasher  security.PasswordHasher
	jwtSvc  auth.JWTService
	admin   AdminCredentials
}

func NewService(
	users repository.UserRepository,
	doctors repository.DoctorRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	admin AdminCredentials,
) *Service {
	return &Service{
		users:   users,
		doctors: doctors,
		hasher:  hasher,
		jwtSvc:  jwtSvc,
		admin:   admin,
	}
}

// Register creates a patient account and returns a token for it.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return nil, apperror.Invalid("password too short", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	return s.issueToken(user.ID.String(), auth.RoleUser)
}

// Login authenticates a patient.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	return s.issueToken(user.ID.String(), auth.RoleUser)
}

// LoginDoctor authenticates a doctor.
func (s *Service) LoginDoctor(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.hasher.Compare(doctor.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	return s.issueToken(doctor.ID.String(), auth.RoleDoctor)
}

// LoginAdmin authenticates against the configured admin credentials.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	if email != s.admin.Email || password != s.admin.Password {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	return s.issueToken("admin", auth.RoleAdmin)
}

// ValidateToken parses and checks a bearer token.
func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token")
	}
	return claims, nil
}

func (s *Service) issueToken(subject string, role auth.Role) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateToken(subject, role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.TokenResponse{Token: token}, nil
}
