package media

import (
	"cms-admin-panel/internal/domain"
	"cms-admin-panel/internal/errors"
	"cms-admin-panel/internal/worker"
	"context"
	defError "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type Service interface {
	// NewStoragePath validates the extension and returns the disk path an
	// upload should be saved to (uuid-based, never the client's filename)
	NewStoragePath(originalName string) (string, error)
	Record(ctx context.Context, originalName, path string, size int64, altText string) (*domain.Media, error)
	List(ctx context.Context) ([]domain.Media, error)
	FindImageByID(ctx context.Context, id uint64) (*domain.Media, error)
	Delete(ctx context.Context, id uint64) error
}

type DefaultService struct {
	repository Repository
	uploadDir  string
	pool       *worker.WorkerPool
}

func NewService(repository Repository, uploadDir string, pool *worker.WorkerPool) Service {
	return &DefaultService{
		repository: repository,
		uploadDir:  uploadDir,
		pool:       pool,
	}
}

func (s *DefaultService) NewStoragePath(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", errors.UnprocessableEntity("Unsupported file type", nil)
	}

	return filepath.Join(s.uploadDir, uuid.NewString()+ext), nil
}

func (s *DefaultService) Record(ctx context.Context, originalName, path string, size int64, altText string) (*domain.Media, error) {
	ext := strings.ToLower(filepath.Ext(path))
	m := &domain.Media{
		Filename: originalName,
		Path:     path,
		MimeType: allowedExtensions[ext],
		Size:     size,
		AltText:  altText,
	}
	if err := s.repository.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DefaultService) List(ctx context.Context) ([]domain.Media, error) {
	return s.repository.List(ctx)
}

func (s *DefaultService) FindImageByID(ctx context.Context, id uint64) (*domain.Media, error) {
	return s.repository.FindByID(ctx, id)
}

// Delete removes the db row, then the file on disk in the background
func (s *DefaultService) Delete(ctx context.Context, id uint64) error {
	m, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Media not found", err)
		}
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	path := m.Path
	s.pool.Submit(func(ctx context.Context) error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing media file %s: %w", path, err)
		}
		return nil
	})

	return nil
}
