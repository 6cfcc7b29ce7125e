package revision

import (
	"cms-admin-panel/internal/domain"
	"context"
	"errors"

	"gorm.io/gorm"
)

// MaxRevisions is the retention cap per post; the oldest revision is
// evicted first once the cap is exceeded.
const MaxRevisions = 3

// Snapshot freezes the three editable fields of a post
type Snapshot struct {
	Title   string
	Content string
	Status  string
}

// Repository persists revision rows
type Repository interface {
	Create(ctx context.Context, rev *domain.PostRevision) error
	FindByID(ctx context.Context, id uint64) (*domain.PostRevision, error)
	ListByPostID(ctx context.Context, postID uint64) ([]domain.PostRevision, error)
	CountByPostID(ctx context.Context, postID uint64) (int64, error)
	Oldest(ctx context.Context, postID uint64) (*domain.PostRevision, error)
	MaxNumber(ctx context.Context, postID uint64) (uint, error)
	Delete(ctx context.Context, id uint64) error
}

// PostStore is the narrow view of the post repository the revision policy
// needs: loading the live row and writing back only the snapshot fields.
type PostStore interface {
	FindByID(ctx context.Context, id uint64) (*domain.Post, error)
	ApplySnapshot(ctx context.Context, postID uint64, title, content, status string) error
}

// Service maintains a bounded undo history per post
type Service interface {
	// CreateRevision must be called with the pre-mutation state, before the
	// caller applies any change to the live post row.
	CreateRevision(ctx context.Context, postID uint64, snap Snapshot) error
	// RestoreRevision returns false when the revision or its parent post is
	// gone. On success the pre-restore state is snapshotted first, then only
	// title/content/status are overwritten; slug, featured media, publish
	// schedule and SEO fields stay untouched.
	RestoreRevision(ctx context.Context, revisionID uint64) (bool, error)
	ListForPost(ctx context.Context, postID uint64) ([]domain.PostRevision, error)
	Get(ctx context.Context, revisionID uint64) (*domain.PostRevision, error)
}

type DefaultService struct {
	revisions Repository
	posts     PostStore
}

func NewService(revisions Repository, posts PostStore) Service {
	return &DefaultService{
		revisions: revisions,
		posts:     posts,
	}
}

func (s *DefaultService) CreateRevision(ctx context.Context, postID uint64, snap Snapshot) error {
	maxNumber, err := s.revisions.MaxNumber(ctx, postID)
	if err != nil {
		return err
	}

	rev := &domain.PostRevision{
		PostID:         postID,
		Title:          snap.Title,
		Content:        snap.Content,
		Status:         snap.Status,
		RevisionNumber: maxNumber + 1,
	}
	if err := s.revisions.Create(ctx, rev); err != nil {
		return err
	}

	return s.enforceCap(ctx, postID)
}

// enforceCap deletes oldest revisions one at a time until the cap holds.
// Revision numbers are never renumbered, so eviction leaves gaps at the
// bottom while the top of the sequence keeps growing.
func (s *DefaultService) enforceCap(ctx context.Context, postID uint64) error {
	count, err := s.revisions.CountByPostID(ctx, postID)
	if err != nil {
		return err
	}

	for count > MaxRevisions {
		oldest, err := s.revisions.Oldest(ctx, postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := s.revisions.Delete(ctx, oldest.ID); err != nil {
			return err
		}
		count--
	}

	return nil
}

func (s *DefaultService) RestoreRevision(ctx context.Context, revisionID uint64) (bool, error) {
	rev, err := s.revisions.FindByID(ctx, revisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	post, err := s.posts.FindByID(ctx, rev.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	// Snapshot the current state first so the pre-restore state is itself
	// recoverable
	current := Snapshot{
		Title:   post.Title,
		Content: post.Content,
		Status:  post.Status,
	}
	if err := s.CreateRevision(ctx, rev.PostID, current); err != nil {
		return false, err
	}

	if err := s.posts.ApplySnapshot(ctx, rev.PostID, rev.Title, rev.Content, rev.Status); err != nil {
		return false, err
	}

	return true, nil
}

func (s *DefaultService) ListForPost(ctx context.Context, postID uint64) ([]domain.PostRevision, error) {
	return s.revisions.ListByPostID(ctx, postID)
}

func (s *DefaultService) Get(ctx context.Context, revisionID uint64) (*domain.PostRevision, error) {
	return s.revisions.FindByID(ctx, revisionID)
}
