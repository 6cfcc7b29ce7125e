package post

import (
	"cms-admin-panel/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
)

type PostsMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

type Repository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uint64) (*domain.Post, error)
	List(ctx context.Context, page, pageSize int) ([]domain.Post, PostsMeta, error)
	Update(ctx context.Context, post *domain.Post) error
	ApplySnapshot(ctx context.Context, postID uint64, title, content, status string) error
	SoftDelete(ctx context.Context, id uint64) error
	ListTrash(ctx context.Context) ([]domain.Post, error)
	Restore(ctx context.Context, id uint64) error
	ForceDelete(ctx context.Context, id uint64) error
	SlugTaken(ctx context.Context, slug string) (bool, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListPublished(ctx context.Context, limit int) ([]domain.Post, error)
}

type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new post repository
func NewRepository(db *gorm.DB) Repository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormRepository) FindByID(ctx context.Context, id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns non-deleted posts, newest first, with pagination meta
func (r *GormRepository) List(ctx context.Context, page, pageSize int) ([]domain.Post, PostsMeta, error) {
	var posts []domain.Post
	var totalRecords int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&domain.Post{}).Count(&totalRecords).Error; err != nil {
		return posts, PostsMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&posts).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return posts, PostsMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

// Update writes the editable fields of the live row; the lock columns and
// the slug are deliberately not part of this write.
func (r *GormRepository) Update(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":             post.Title,
			"content":           post.Content,
			"status":            post.Status,
			"featured_media_id": post.FeaturedMediaID,
			"published_at":      post.PublishedAt,
			"meta_title":        post.MetaTitle,
			"meta_description":  post.MetaDescription,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// ApplySnapshot overwrites only the three snapshot fields, leaving slug,
// featured media, publish schedule and SEO fields unchanged.
func (r *GormRepository) ApplySnapshot(ctx context.Context, postID uint64, title, content, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", postID).
		Updates(map[string]any{
			"title":      title,
			"content":    content,
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *GormRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Post{}, id).Error
}

// ListTrash returns only soft-deleted posts, most recently deleted first
func (r *GormRepository) ListTrash(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *GormRepository) Restore(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Model(&domain.Post{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *GormRepository) ForceDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&domain.Post{}, id).Error
}

// SlugTaken checks slug uniqueness across all posts, including soft-deleted
// ones, so a trashed post can always be restored without a slug collision.
func (r *GormRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&domain.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// FindPublishedBySlug returns a published, non-deleted post whose publish
// time has been reached
func (r *GormRepository) FindPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, domain.StatusPublished).
		Where("published_at IS NULL OR published_at <= NOW()").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublished returns the latest published posts for the public front end
func (r *GormRepository) ListPublished(ctx context.Context, limit int) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusPublished).
		Where("published_at IS NULL OR published_at <= NOW()").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
