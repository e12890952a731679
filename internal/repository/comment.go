package repository

import (
	"context"

	"instaclone/internal/middleware"
	"instaclone/internal/models"
	"instaclone/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger(middleware.Logger, "comments")}
}

// Create inserts comment and loads its author.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()

	db := r.db.WithContext(ctx)
	if err := db.Omit("User", "Post").Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	if err := db.First(&comment.User, comment.UserID).Error; err != nil {
		r.log.LogError(ctx, err, "load_author")
		return models.NewInternalError(err)
	}
	r.log.LogWrite(ctx, "create", attrUint("post_id", comment.PostID))
	return nil
}

// ListByPost returns comments newest-first with authors loaded. An unknown
// post yields an empty slice.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	defer observability.TrackQuery("list_by_post", "comments")()

	comments := make([]*models.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		r.log.LogError(ctx, err, "list_by_post")
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
