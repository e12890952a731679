package service

import (
	"context"
	"errors"
	"strings"

	"instaclone/internal/auth"
	"instaclone/internal/models"
	"instaclone/internal/observability"
	"instaclone/internal/repository"
	"instaclone/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password."

// AuthService registers users and exchanges credentials for bearer tokens.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *auth.Issuer
	cost     int
}

type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100" label:"Display name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthService(userRepo repository.UserRepository, issuer *auth.Issuer) *AuthService {
	return &AuthService{userRepo: userRepo, issuer: issuer, cost: bcrypt.DefaultCost}
}

// Register validates the input, enforces unique email and username, stores
// the bcrypt hash and returns a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	resp, err := s.register(ctx, in)
	observability.AuthAttempts.WithLabelValues("register", outcome(err)).Inc()
	return resp, err
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	for _, check := range []error{
		validation.ValidateUsername(in.Username),
		validation.ValidateEmail(in.Email),
		validation.ValidatePassword(in.Password),
		validation.Struct(in),
	} {
		if check != nil {
			return nil, models.NewValidationError(check.Error())
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered.")
	}

	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already taken.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, models.NewValidationError("Password must be at most 72 characters.")
		}
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hash),
		DisplayName: in.DisplayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.respond(user)
}

// Login returns the same 401 for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.AuthResponse, error) {
	resp, err := s.login(ctx, in)
	observability.AuthAttempts.WithLabelValues("login", outcome(err)).Inc()
	return resp, err
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.AuthResponse{Token: token, UserID: user.ID, Username: user.Username}, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
