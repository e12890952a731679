// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"instaclone/internal/cache"
	"instaclone/internal/middleware"
	"instaclone/internal/models"
	"instaclone/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db    *gorm.DB
	redis *redis.Client
	log   *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation. rdb may be
// nil, in which case GetByID always reads the database.
func NewUserRepository(db *gorm.DB, rdb *redis.Client) UserRepository {
	return &userRepository{db: db, redis: rdb, log: observability.NewRepoLogger(middleware.Logger, "users")}
}

// GetByID is served cache-aside. The password hash never leaves the process
// through the cache, so callers that need it must use GetByEmail.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	err := cache.Aside(ctx, r.redis, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User")
			}
			r.log.LogError(ctx, err, "get_by_id")
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "get_by_email", "email = ?", email)
}

// GetByUsername returns nil, nil when the name is free.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "get_by_username", "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	defer observability.TrackQuery(op, "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.LogError(ctx, err, op)
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			if violatedColumn(err, "email") {
				return models.NewConflictError("Email already registered.")
			}
			return models.NewConflictError("Username already taken.")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogWrite(ctx, "create")
	return nil
}

// UpdateProfile writes the editable profile columns and drops the cached copy.
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update_profile", "users")()

	err := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).
		Select("display_name", "bio").
		Updates(map[string]any{"display_name": user.DisplayName, "bio": user.Bio}).Error
	if err != nil {
		r.log.LogError(ctx, err, "update_profile")
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, r.redis, user.ID)
	return nil
}
