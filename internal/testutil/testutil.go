// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"testing"

	"instaclone/internal/database"
	"instaclone/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB returns a migrated in-memory database that lives for the test.
// It is pinned to one connection because each SQLite :memory: connection is
// a separate database.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$placeholderplaceholderplaceholderplaceholderpl",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post owned by userID.
func CreatePost(t testing.TB, db *gorm.DB, userID uint, imageURL string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, ImageURL: imageURL}
	require.NoError(t, db.Omit("User").Create(post).Error)
	return post
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

// MultipartBody builds a multipart/form-data body with one file part named
// field and any extra text fields. It returns the body and its content type.
func MultipartBody(t testing.TB, field, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// FileHeader returns a parsed *multipart.FileHeader holding data.
func FileHeader(t testing.TB, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	body, contentType := MultipartBody(t, "image", filename, data, nil)
	_, boundary, ok := bytes.Cut([]byte(contentType), []byte("boundary="))
	require.True(t, ok)

	form, err := multipart.NewReader(body, string(boundary)).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}
