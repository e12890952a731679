package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"instaclone/internal/models"
	"instaclone/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDemoData(t *testing.T) {
	data, err := LoadDemoData()
	require.NoError(t, err)

	assert.Equal(t, "password", data.Password)
	assert.Len(t, data.Users, 3)
	assert.Len(t, data.Posts, 6)
	assert.Len(t, data.Comments, 8)
	assert.Len(t, data.Likes, 11)
	assert.Equal(t, "alice", data.Users[0].Username)
	assert.Equal(t, 12, data.Posts[0].HoursAgo)
	assert.Equal(t, 2, data.Posts[5].HoursAgo)
	assert.Equal(t, "Morning coffee vibes", data.Posts[0].Caption)
	assert.Equal(t, "Where is this?", data.Comments[2].Text)
	for i, c := range data.Comments {
		assert.NotEmpty(t, c.Text, "comment %d", i)
	}
}

func TestDemo_SeedsOnceIntoEmptyDatabase(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	dir := filepath.Join(t.TempDir(), "uploads")
	ctx := context.Background()

	require.NoError(t, Demo(ctx, db, dir))

	counts := map[string]int64{}
	for name, model := range map[string]any{
		"users": &models.User{}, "posts": &models.Post{},
		"comments": &models.Comment{}, "likes": &models.Like{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		counts[name] = n
	}
	assert.Equal(t, map[string]int64{"users": 3, "posts": 6, "comments": 8, "likes": 11}, counts)

	var alice models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)
	assert.Equal(t, "Alice Johnson", alice.DisplayName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(alice.Password), []byte("password")))

	var posts []models.Post
	require.NoError(t, db.Order("created_at DESC").Find(&posts).Error)
	require.Len(t, posts, 6)
	assert.Equal(t, "Fresh baked sourdough", *posts[0].Caption)
	assert.Equal(t, "/uploads/seed-6.webp", posts[0].ImageURL)
	assert.WithinDuration(t, time.Now().Add(-2*time.Hour), posts[0].CreatedAt, time.Minute)

	for i := 1; i <= 6; i++ {
		_, err := os.Stat(filepath.Join(dir, PlaceholderName(i)))
		assert.NoError(t, err, PlaceholderName(i))
	}

	// A second run is a no-op.
	require.NoError(t, Demo(ctx, db, dir))
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 3, users)
}

func TestDemo_SkipsWhenUsersExist(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.CreateUser(t, db, "someone")
	dir := t.TempDir()

	require.NoError(t, Demo(context.Background(), db, dir))

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, posts)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no images are written when seeding is skipped")
}
