package revision

import (
	"cms-admin-panel/internal/domain"
	"context"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new revision repository
func NewRepository(db *gorm.DB) Repository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, rev *domain.PostRevision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *GormRepository) FindByID(ctx context.Context, id uint64) (*domain.PostRevision, error) {
	var rev domain.PostRevision
	err := r.db.WithContext(ctx).First(&rev, id).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListByPostID returns all revisions for the post, newest first
func (r *GormRepository) ListByPostID(ctx context.Context, postID uint64) ([]domain.PostRevision, error) {
	var revisions []domain.PostRevision
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("revision_number DESC").
		Find(&revisions).Error
	return revisions, err
}

func (r *GormRepository) CountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PostRevision{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// Oldest returns the revision with the minimum revision_number for the post
func (r *GormRepository) Oldest(ctx context.Context, postID uint64) (*domain.PostRevision, error) {
	var rev domain.PostRevision
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("revision_number ASC").
		First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *GormRepository) MaxNumber(ctx context.Context, postID uint64) (uint, error) {
	var maxNumber uint
	err := r.db.WithContext(ctx).
		Model(&domain.PostRevision{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(revision_number), 0)").
		Scan(&maxNumber).Error
	return maxNumber, err
}

func (r *GormRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.PostRevision{}, id).Error
}
