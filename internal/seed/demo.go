// Package seed loads demo and synthetic data for development and testing.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"instaclone/internal/middleware"
	"instaclone/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed demo.yaml
var demoYAML []byte

// DemoData is the fixed demo dataset.
type DemoData struct {
	Password string `yaml:"password"`
	Users    []struct {
		Username    string `yaml:"username"`
		Email       string `yaml:"email"`
		DisplayName string `yaml:"displayName"`
		Bio         string `yaml:"bio"`
	} `yaml:"users"`
	Posts []struct {
		Author   string `yaml:"author"`
		Caption  string `yaml:"caption"`
		HoursAgo int    `yaml:"hoursAgo"`
	} `yaml:"posts"`
	Comments []struct {
		Author string `yaml:"author"`
		Post   int    `yaml:"post"`
		Text   string `yaml:"text"`
	} `yaml:"comments"`
	Likes []struct {
		User string `yaml:"user"`
		Post int    `yaml:"post"`
	} `yaml:"likes"`
}

// LoadDemoData parses the embedded dataset and checks its references.
func LoadDemoData() (*DemoData, error) {
	var data DemoData
	if err := yaml.Unmarshal(demoYAML, &data); err != nil {
		return nil, fmt.Errorf("parse demo data: %w", err)
	}

	known := make(map[string]bool, len(data.Users))
	for _, u := range data.Users {
		known[u.Username] = true
	}
	inPosts := func(i int) bool { return i >= 0 && i < len(data.Posts) }

	for _, p := range data.Posts {
		if !known[p.Author] {
			return nil, fmt.Errorf("demo post author %q is not a demo user", p.Author)
		}
	}
	for _, c := range data.Comments {
		if !known[c.Author] || !inPosts(c.Post) {
			return nil, fmt.Errorf("demo comment %q has a bad reference", c.Text)
		}
	}
	for _, l := range data.Likes {
		if !known[l.User] || !inPosts(l.Post) {
			return nil, fmt.Errorf("demo like by %q has a bad reference", l.User)
		}
	}
	return &data, nil
}

// Demo creates the demo users, images, posts, comments and likes. It does
// nothing when any user already exists.
func Demo(ctx context.Context, db *gorm.DB, uploadDir string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		middleware.Logger.InfoContext(ctx, "demo seed skipped, users already exist", slog.Int64("users", count))
		return nil
	}

	data, err := LoadDemoData()
	if err != nil {
		return err
	}

	images, err := WritePlaceholders(uploadDir, len(data.Posts))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	now := time.Now().UTC()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make(map[string]uint, len(data.Users))
		for _, u := range data.Users {
			user := models.User{
				Username:    u.Username,
				Email:       u.Email,
				Password:    string(hash),
				DisplayName: u.DisplayName,
				Bio:         u.Bio,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create demo user %s: %w", u.Username, err)
			}
			users[u.Username] = user.ID
		}

		postIDs := make([]uint, len(data.Posts))
		for i, p := range data.Posts {
			caption := p.Caption
			post := models.Post{
				ImageURL:  "/uploads/" + images[i],
				Caption:   &caption,
				UserID:    users[p.Author],
				CreatedAt: now.Add(-time.Duration(p.HoursAgo) * time.Hour),
			}
			if err := tx.Omit("User").Create(&post).Error; err != nil {
				return fmt.Errorf("create demo post %d: %w", i, err)
			}
			postIDs[i] = post.ID
		}

		for _, c := range data.Comments {
			comment := models.Comment{Text: c.Text, UserID: users[c.Author], PostID: postIDs[c.Post]}
			if err := tx.Omit("User", "Post").Create(&comment).Error; err != nil {
				return fmt.Errorf("create demo comment: %w", err)
			}
		}

		for _, l := range data.Likes {
			like := models.Like{UserID: users[l.User], PostID: postIDs[l.Post]}
			if err := tx.Omit("User", "Post").Create(&like).Error; err != nil {
				return fmt.Errorf("create demo like: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "demo data seeded",
		slog.Int("users", len(data.Users)),
		slog.Int("posts", len(data.Posts)),
		slog.Int("comments", len(data.Comments)),
		slog.Int("likes", len(data.Likes)),
	)
	return nil
}
