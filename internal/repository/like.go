package repository

import (
	"context"
	"log/slog"

	"instaclone/internal/middleware"
	"instaclone/internal/models"
	"instaclone/internal/observability"

	"gorm.io/gorm"
)

// ErrDuplicateLike is returned when (user, post) is already liked.
var ErrDuplicateLike = models.NewConflictError("Already liked.")

// LikeRepository persists likes. A like is unique per (user, post).
type LikeRepository interface {
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, postID uint) (int64, error)
}

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger(middleware.Logger, "likes")}
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("exists", "likes")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		r.log.LogError(ctx, err, "exists")
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Create inserts like. The unique index decides concurrent duplicates.
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	defer observability.TrackQuery("create", "likes")()

	if err := r.db.WithContext(ctx).Omit("User", "Post").Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateLike
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogWrite(ctx, "create", attrUint("post_id", like.PostID))
	return nil
}

// Delete hard-deletes the like and returns the number of rows removed.
func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) (int64, error) {
	defer observability.TrackQuery("delete", "likes")()

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return 0, models.NewInternalError(res.Error)
	}
	r.log.LogWrite(ctx, "delete", attrUint("post_id", postID), slog.Int64("rows", res.RowsAffected))
	return res.RowsAffected, nil
}

func attrUint(key string, v uint) slog.Attr {
	return slog.Uint64(key, uint64(v))
}
