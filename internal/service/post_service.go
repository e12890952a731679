package service

import (
	"context"
	"math"
	"mime/multipart"
	"strings"

	"instaclone/internal/models"
	"instaclone/internal/observability"
	"instaclone/internal/repository"
	"instaclone/internal/validation"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	MaxCaptionLen   = 2200
)

type PostService struct {
	postRepo repository.PostRepository
	images   ImageSaver
}

type CreatePostInput struct {
	UserID  uint
	File    *multipart.FileHeader `validate:"-"`
	Caption *string               `validate:"omitempty,max=2200" label:"Caption"`
}

func NewPostService(postRepo repository.PostRepository, images ImageSaver) *PostService {
	return &PostService{postRepo: postRepo, images: images}
}

// NormalizePage clamps paging input: page < 1 becomes 1 and pageSize is
// clamped to [1, MaxPageSize].
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// GetFeed returns one page of the newest-first feed. One extra row is
// fetched to tell whether another page exists.
func (s *PostService) GetFeed(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	page, pageSize = NormalizePage(page, pageSize)
	if page-1 > math.MaxInt/pageSize {
		// The offset would overflow, so no rows can exist there.
		return &models.FeedPage{Posts: []models.PostView{}, Page: page, PageSize: pageSize}, nil
	}

	rows, err := s.postRepo.Feed(ctx, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}

	views := make([]models.PostView, 0, len(rows))
	for _, p := range rows {
		views = append(views, p.View())
	}
	return &models.FeedPage{Posts: views, Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := post.View()
	return &view, nil
}

// CreatePost stores the image first; a rejected upload creates no row.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	ctx, span := observability.StartServiceSpan(ctx, "create_post", in.UserID, 0)
	view, err := s.createPost(ctx, in)
	observability.EndSpan(span, err)
	return view, err
}

func (s *PostService) createPost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	if in.File == nil {
		return nil, models.NewValidationError("Image file is required.")
	}
	if in.Caption != nil {
		trimmed := strings.TrimSpace(*in.Caption)
		if trimmed == "" {
			in.Caption = nil
		} else {
			in.Caption = &trimmed
		}
	}
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	name, err := s.images.SaveImage(in.File)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		ImageURL: UploadURLPrefix + name,
		Caption:  in.Caption,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.Engagement.WithLabelValues("post").Inc()

	return s.GetPost(ctx, post.ID)
}
