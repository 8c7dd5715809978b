package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/media"
)

// Service manages patient profiles.
type Service struct {
	users repository.UserRepository
	media media.Store
}

func NewService(users repository.UserRepository, mediaStore media.Store) *Service {
	return &Service{users: users, media: mediaStore}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperror.NotFound("user", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) error {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return apperror.NotFound("user", err)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Address = req.Address
	user.Gender = req.Gender
	user.DOB = req.DOB

	if err := s.users.Update(ctx, user); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// UploadImage stores a profile image and records its URL.
func (s *Service) UploadImage(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return "", apperror.NotFound("user", err)
	}
	if err != nil {
		return "", apperror.Internal(err)
	}

	name := fmt.Sprintf("users/%s-%d", userID, time.Now().Unix())
	url, err := s.media.Upload(ctx, name, reader, size, contentType)
	if err != nil {
		return "", apperror.Internal(err)
	}

	user.Image = url
	if err := s.users.Update(ctx, user); err != nil {
		return "", apperror.Internal(err)
	}
	return url, nil
}
