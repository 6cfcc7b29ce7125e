package media

import (
	"cms-admin-panel/internal/domain"
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, media *domain.Media) error
	FindByID(ctx context.Context, id uint64) (*domain.Media, error)
	List(ctx context.Context) ([]domain.Media, error)
	Delete(ctx context.Context, id uint64) error
}

type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new media repository
func NewRepository(db *gorm.DB) Repository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *GormRepository) FindByID(ctx context.Context, id uint64) (*domain.Media, error) {
	var m domain.Media
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepository) List(ctx context.Context) ([]domain.Media, error) {
	var files []domain.Media
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *GormRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Media{}, id).Error
}
