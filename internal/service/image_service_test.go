package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"instaclone/internal/models"
	"instaclone/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageService_SaveImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	svc := NewImageService(dir)
	data := testutil.TinyPNG(t, 4, 4)

	name, err := svc.SaveImage(testutil.FileHeader(t, "Photo.PNG", data))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), "extension is lowercased: %s", name)
	assert.Len(t, name, 36+len(".png"))

	written, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, written), "bytes are stored unchanged")
	assert.Equal(t, dir, svc.UploadDir())
}

func TestImageService_SaveImage_Rejections(t *testing.T) {
	dir := t.TempDir()
	svc := NewImageService(dir)

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"empty", "a.png", nil, "File is empty."},
		{"too large", "a.png", make([]byte, MaxUploadBytes+1), "File exceeds 10MB limit."},
		{"bad type", "a.BMP", []byte("BM"), "File type '.bmp' is not allowed. Allowed: .jpg, .jpeg, .png, .gif, .webp"},
		{"no extension", "photo", []byte("x"), "File type '' is not allowed. Allowed: .jpg, .jpeg, .png, .gif, .webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveImage(testutil.FileHeader(t, tt.filename, tt.data))
			requireAppError(t, err, models.CodeValidation, tt.want)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads must not write files")

	_, err = svc.SaveImage(nil)
	requireAppError(t, err, models.CodeValidation, "File is empty.")
}

func TestImageService_AcceptsEveryAllowedExtension(t *testing.T) {
	svc := NewImageService(t.TempDir())
	for _, ext := range AllowedImageExtensions {
		_, err := svc.SaveImage(testutil.FileHeader(t, "x"+ext, []byte("data")))
		assert.NoError(t, err, ext)
	}
}
