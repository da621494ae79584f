// internal/domain/upload/service.go
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/apperror"
)

// ErrNotAnImage is returned for uploads that are not png/jpg/jpeg
var ErrNotAnImage = apperror.FieldValidation("image", "Attached file is not an image.")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Service stores uploaded product images on local disk
type Service struct {
	publicDir    string
	imagePath    string
	maxSize      int64
	allowedTypes map[string]bool
	logger       *logrus.Logger
}

// NewService creates a new upload service
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	allowed := make(map[string]bool, len(cfg.Upload.AllowedMimeTypes))
	for _, t := range cfg.Upload.AllowedMimeTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}

	return &Service{
		publicDir:    cfg.External.Storage.PublicDir,
		imagePath:    "/" + strings.Trim(cfg.External.Storage.ImagePath, "/"),
		maxSize:      cfg.Upload.MaxSize,
		allowedTypes: allowed,
		logger:       logger,
	}
}

// SaveImage validates and stores an uploaded image, returning the public
// path it is served under, e.g. /uploads/images/<uuid>-photo.png
func (s *Service) SaveImage(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", ErrNotAnImage
	}
	if err := s.validate(header); err != nil {
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	filename := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFilename(header.Filename))
	dir := filepath.Join(s.publicDir, filepath.FromSlash(s.imagePath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	publicPath := path.Join(s.imagePath, filename)
	s.logger.WithFields(logrus.Fields{
		"path": publicPath,
		"size": header.Size,
	}).Debug("Image stored")

	return publicPath, nil
}

// DeleteFile removes a previously stored image. Paths outside the image
// directory are refused.
func (s *Service) DeleteFile(publicPath string) error {
	clean := path.Clean("/" + publicPath)
	if !strings.HasPrefix(clean, s.imagePath+"/") {
		return fmt.Errorf("refusing to delete %q outside %s", publicPath, s.imagePath)
	}

	if err := os.Remove(filepath.Join(s.publicDir, filepath.FromSlash(clean))); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Service) validate(header *multipart.FileHeader) error {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return apperror.FieldValidation("image", fmt.Sprintf("Image must be smaller than %d bytes.", s.maxSize))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return ErrNotAnImage
	}

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if contentType != "" && len(s.allowedTypes) > 0 && !s.allowedTypes[contentType] {
		return ErrNotAnImage
	}

	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." {
		return "image"
	}
	return name
}
