package service

import (
	"context"
	"strings"

	"instaclone/internal/models"
	"instaclone/internal/repository"
	"instaclone/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID      uint    `json:"-"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=100" label:"Display name"`
	Bio         *string `json:"bio" validate:"omitempty,max=500" label:"Bio"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.ToProfile()
	return &profile, nil
}

// UpdateProfile changes only the fields that are present in the input.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	profile := user.ToProfile()
	return &profile, nil
}
