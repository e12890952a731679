package service

import (
	"context"
	"mime/multipart"

	"instaclone/internal/models"
	"instaclone/internal/notifications"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateProfileFn func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, user *models.User) error {
	return s.updateProfileFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		updateProfileFn: func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	feedFn    func(context.Context, int, int) ([]*models.Post, error)
	authorFn  func(context.Context, uint) (uint, bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Feed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.feedFn(ctx, limit, offset)
}
func (s *postRepoStub) AuthorOf(ctx context.Context, id uint) (uint, bool, error) {
	return s.authorFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		feedFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		authorFn:  func(_ context.Context, _ uint) (uint, bool, error) { return 1, true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	existsFn func(context.Context, uint, uint) (bool, error)
	createFn func(context.Context, *models.Like) error
	deleteFn func(context.Context, uint, uint) (int64, error)
}

func (s *likeRepoStub) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	return s.existsFn(ctx, userID, postID)
}
func (s *likeRepoStub) Create(ctx context.Context, like *models.Like) error {
	return s.createFn(ctx, like)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, postID uint) (int64, error) {
	return s.deleteFn(ctx, userID, postID)
}

// imageSaverStub is a stub for ImageSaver.
type imageSaverStub struct {
	saveFn func(*multipart.FileHeader) (string, error)
	calls  int
}

func (s *imageSaverStub) SaveImage(file *multipart.FileHeader) (string, error) {
	s.calls++
	return s.saveFn(file)
}

// publisherStub records published activity events.
type publisherStub struct {
	events []notifications.Event
	err    error
}

func (p *publisherStub) Publish(_ context.Context, ev notifications.Event) error {
	p.events = append(p.events, ev)
	return p.err
}
