package seed

import (
	"context"
	"fmt"
	"log/slog"

	"instaclone/internal/middleware"
	"instaclone/internal/models"

	"gorm.io/gorm"
)

// Result summarises a synthetic seeding run.
type Result struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
}

// Seed fills the database with NumUsers random users and NumPosts random
// posts, then scatters comments and likes across them.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seed needs at least one user, got %d", opts.NumUsers)
	}
	middleware.Logger.InfoContext(ctx, "starting database seeding",
		slog.Int("users", opts.NumUsers), slog.Int("posts", opts.NumPosts))

	db = db.WithContext(ctx)
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}

	var res Result
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		res.Posts++

		// Anyone may comment (1 in 4); everyone but the author may like (1 in 2).
		for _, u := range users {
			if f.rnd.Intn(4) == 0 {
				if _, err := f.CreateComment(u, post); err != nil {
					return nil, fmt.Errorf("create comment: %w", err)
				}
				res.Comments++
			}
			if u.ID != author.ID && f.rnd.Intn(2) == 0 {
				if err := f.CreateLike(u, post); err != nil {
					return nil, fmt.Errorf("create like: %w", err)
				}
				res.Likes++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "database seeding completed",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
	)
	return &res, nil
}

func clearData(db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE likes, comments, posts, users RESTART IDENTITY CASCADE`).Error
	}
	for _, table := range []string{"likes", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
