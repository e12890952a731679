package seed

import (
	"fmt"
	"math/rand"
	"time"

	"instaclone/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control synthetic seeding.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a fixed precomputed hash instead of hashing per user.
	SkipBcrypt bool
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
}

// FactoryPassword is the plain-text password of every factory user.
const FactoryPassword = "password123"

// Factory builds domain entities with gofakeit content and persists them.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
	hash string
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	cost := bcrypt.DefaultCost
	if opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(FactoryPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash factory password: %w", err)
	}

	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(seed)), hash: string(hash)}, nil
}

// BuildUser returns an unsaved user with a unique-looking username.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username:    fmt.Sprintf("%.20s_%d", sanitizeUsername(gofakeit.Username()), gofakeit.Number(1000, 9999)),
		Email:       fmt.Sprintf("%s.%d@%s", gofakeit.Word(), gofakeit.Number(1000, 99999), "example.com"),
		Password:    f.hash,
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(8),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by user with a remote placeholder image
// and a timestamp within the last MaxDays.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	caption := gofakeit.Sentence(f.rnd.Intn(10) + 3)
	back := time.Duration(f.rnd.Intn(f.opts.MaxDays*24*60)) * time.Minute
	post := &models.Post{
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Caption:   &caption,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC().Add(-back),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if err := f.db.Omit("User").Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a gofakeit comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:   gofakeit.Sentence(f.rnd.Intn(12) + 2),
		UserID: user.ID,
		PostID: post.ID,
	}
	if err := f.db.Omit("User", "Post").Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like by user on post.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	return f.db.Omit("User", "Post").Create(like).Error
}

func sanitizeUsername(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}
