package service

import (
	"context"

	"instaclone/internal/models"
	"instaclone/internal/notifications"
	"instaclone/internal/observability"
	"instaclone/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	notifier ActivityPublisher
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo}
}

// Like records userID's like on postID. The existence check only saves a
// round trip; the unique index still rejects concurrent duplicates.
func (s *LikeService) Like(ctx context.Context, userID, postID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "like", userID, postID)
	err := s.like(ctx, userID, postID)
	observability.EndSpan(span, err)
	return err
}

func (s *LikeService) like(ctx context.Context, userID, postID uint) error {
	author, found, err := s.postRepo.AuthorOf(ctx, postID)
	if err != nil {
		return err
	}
	if !found {
		return models.NewNotFoundError("Post")
	}

	liked, err := s.likeRepo.Exists(ctx, userID, postID)
	if err != nil {
		return err
	}
	if liked {
		return repository.ErrDuplicateLike
	}

	if err := s.likeRepo.Create(ctx, &models.Like{UserID: userID, PostID: postID}); err != nil {
		return err
	}
	observability.Engagement.WithLabelValues("like").Inc()
	publish(ctx, s.notifier, notifications.Event{
		Kind: notifications.KindLike, PostID: postID, ActorID: userID, Recipient: author,
	})
	return nil
}

// SetNotifier enables activity events for new likes.
func (s *LikeService) SetNotifier(n ActivityPublisher) {
	s.notifier = n
}

func (s *LikeService) Unlike(ctx context.Context, userID, postID uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "unlike", userID, postID)
	defer func() { observability.EndSpan(span, err) }()

	n, err := s.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewNotFoundError("Like")
	}
	observability.Engagement.WithLabelValues("unlike").Inc()
	return nil
}
