package service

import (
	"context"
	"strings"

	"instaclone/internal/models"
	"instaclone/internal/notifications"
	"instaclone/internal/observability"
	"instaclone/internal/repository"
	"instaclone/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifier    ActivityPublisher
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string `validate:"notblank,max=2200" label:"Comment text"`
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) AddComment(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	ctx, span := observability.StartServiceSpan(ctx, "add_comment", in.UserID, in.PostID)
	view, err := s.addComment(ctx, in)
	observability.EndSpan(span, err)
	return view, err
}

func (s *CommentService) addComment(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	author, found, err := s.postRepo.AuthorOf(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewNotFoundError("Post")
	}

	in.Text = strings.TrimSpace(in.Text)
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{UserID: in.UserID, PostID: in.PostID, Text: in.Text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.Engagement.WithLabelValues("comment").Inc()
	publish(ctx, s.notifier, notifications.Event{
		Kind: notifications.KindComment, PostID: in.PostID, ActorID: in.UserID,
		Recipient: author, CommentID: comment.ID,
	})

	view := comment.View()
	return &view, nil
}

// SetNotifier enables activity events for new comments.
func (s *CommentService) SetNotifier(n ActivityPublisher) {
	s.notifier = n
}

// ListComments returns comments newest-first. It never returns nil, so the
// API always writes a JSON array.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views, nil
}
