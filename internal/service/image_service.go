package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"instaclone/internal/models"
	"instaclone/internal/observability"

	"github.com/google/uuid"
)

const (
	// MaxUploadBytes is the largest accepted image (10 MiB).
	MaxUploadBytes = 10 * 1024 * 1024
	// UploadURLPrefix is where the static handler serves the upload dir.
	UploadURLPrefix = "/uploads/"
)

// ErrImageTooLarge rejects uploads over MaxUploadBytes.
var ErrImageTooLarge = models.NewValidationError("File exceeds 10MB limit.")

// AllowedImageExtensions lists accepted upload extensions, lowercase.
var AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ImageSaver stores an uploaded image and returns its file name.
type ImageSaver interface {
	SaveImage(file *multipart.FileHeader) (string, error)
}

// ImageService writes uploads to the content directory. Files are stored
// as received: no sniffing and no re-encoding.
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	return &ImageService{uploadDir: uploadDir}
}

// UploadDir is the directory files are written to.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// SaveImage validates size and extension and copies the file under a random name.
func (s *ImageService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file == nil || file.Size == 0 {
		observability.Uploads.WithLabelValues("empty").Inc()
		return "", models.NewValidationError("File is empty.")
	}
	if file.Size > MaxUploadBytes {
		observability.Uploads.WithLabelValues("too_large").Inc()
		return "", ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isAllowedExtension(ext) {
		observability.Uploads.WithLabelValues("bad_type").Inc()
		return "", models.NewValidationError(fmt.Sprintf(
			"File type '%s' is not allowed. Allowed: %s", ext, strings.Join(AllowedImageExtensions, ", ")))
	}

	name, written, err := s.write(file, ext)
	if err != nil {
		observability.Uploads.WithLabelValues("error").Inc()
		return "", models.NewInternalError(err)
	}

	observability.Uploads.WithLabelValues("saved").Inc()
	observability.UploadBytes.Add(float64(written))
	return name, nil
}

func (s *ImageService) write(file *multipart.FileHeader, ext string) (string, int64, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", name, err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write %s: %w", name, err)
	}
	return name, written, nil
}

func isAllowedExtension(ext string) bool {
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
