package lock

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a lock repository over the posts table
func NewRepository(db *gorm.DB) Repository {
	return &GormRepository{db: db}
}

// GetLock loads the lock columns together with the holder's name. The
// timestamp comes back exactly as stored so it can serve as the form token.
func (r *GormRepository) GetLock(ctx context.Context, postID uint64) (*Info, error) {
	var row struct {
		LockedBy *uint64
		LockedAt *time.Time
		Name     *string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT p.locked_by, p.locked_at, u.name
		FROM posts p
		LEFT JOIN users u ON u.id = p.locked_by
		WHERE p.id = ? AND p.deleted_at IS NULL AND p.locked_by IS NOT NULL
		LIMIT 1
	`, postID).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	if row.LockedBy == nil || row.LockedAt == nil {
		return nil, nil
	}

	info := &Info{
		HolderID: *row.LockedBy,
		LockedAt: *row.LockedAt,
	}
	if row.Name != nil {
		info.HolderName = *row.Name
	}

	return info, nil
}

// SetLock stamps the lock with the database clock, avoiding client clock skew
func (r *GormRepository) SetLock(ctx context.Context, postID uint64, userID uint64) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE posts
		SET locked_by = ?, locked_at = NOW()
		WHERE id = ? AND deleted_at IS NULL
	`, userID, postID).Error
}

func (r *GormRepository) ClearLock(ctx context.Context, postID uint64) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE posts
		SET locked_by = NULL, locked_at = NULL
		WHERE id = ?
	`, postID).Error
}
