package repository

import (
	"context"
	"errors"

	"instaclone/internal/middleware"
	"instaclone/internal/models"
	"instaclone/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Feed(ctx context.Context, limit, offset int) ([]*models.Post, error)
	// AuthorOf returns the owner of post id; found is false when it does not exist.
	AuthorOf(ctx context.Context, id uint) (authorID uint, found bool, err error)
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger(middleware.Logger, "posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogWrite(ctx, "create", attrUint("post_id", post.ID))
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get_by_id", "posts")()

	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		r.log.LogError(ctx, err, "get_by_id")
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Feed returns up to limit posts newest-first. Ties on created_at are broken
// by id so pages never overlap.
func (r *postRepository) Feed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("feed", "posts")()
	ctx, span := observability.StartSpan(ctx, "repository.posts", "feed",
		attribute.Int("limit", limit), attribute.Int("offset", offset))

	posts := make([]*models.Post, 0, limit)
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	observability.EndSpan(span, err)
	if err != nil {
		r.log.LogError(ctx, err, "feed")
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) AuthorOf(ctx context.Context, id uint) (uint, bool, error) {
	defer observability.TrackQuery("author_of", "posts")()

	var authors []uint
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).Limit(1).Pluck("user_id", &authors).Error; err != nil {
		r.log.LogError(ctx, err, "author_of")
		return 0, false, models.NewInternalError(err)
	}
	if len(authors) == 0 {
		return 0, false, nil
	}
	return authors[0], true, nil
}

// applyPostDetails selects the author username and live counts in one query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).Select("posts.*, " +
		"(SELECT users.username FROM users WHERE users.id = posts.user_id) AS username, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count")
}
