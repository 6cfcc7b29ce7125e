package revision

import (
	"cms-admin-panel/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// fakeRevisionRepo stores revisions in memory, ordered by insertion
type fakeRevisionRepo struct {
	nextID    uint64
	revisions []domain.PostRevision
}

func newFakeRevisionRepo() *fakeRevisionRepo {
	return &fakeRevisionRepo{nextID: 1}
}

func (r *fakeRevisionRepo) Create(ctx context.Context, rev *domain.PostRevision) error {
	rev.ID = r.nextID
	r.nextID++
	r.revisions = append(r.revisions, *rev)
	return nil
}

func (r *fakeRevisionRepo) FindByID(ctx context.Context, id uint64) (*domain.PostRevision, error) {
	for _, rev := range r.revisions {
		if rev.ID == id {
			copied := rev
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRevisionRepo) ListByPostID(ctx context.Context, postID uint64) ([]domain.PostRevision, error) {
	var result []domain.PostRevision
	for _, rev := range r.revisions {
		if rev.PostID == postID {
			result = append(result, rev)
		}
	}
	// Newest first, same as the SQL ordering
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

func (r *fakeRevisionRepo) CountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	for _, rev := range r.revisions {
		if rev.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRevisionRepo) Oldest(ctx context.Context, postID uint64) (*domain.PostRevision, error) {
	var oldest *domain.PostRevision
	for i := range r.revisions {
		rev := &r.revisions[i]
		if rev.PostID != postID {
			continue
		}
		if oldest == nil || rev.RevisionNumber < oldest.RevisionNumber {
			oldest = rev
		}
	}
	if oldest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *oldest
	return &copied, nil
}

func (r *fakeRevisionRepo) MaxNumber(ctx context.Context, postID uint64) (uint, error) {
	var maxNumber uint
	for _, rev := range r.revisions {
		if rev.PostID == postID && rev.RevisionNumber > maxNumber {
			maxNumber = rev.RevisionNumber
		}
	}
	return maxNumber, nil
}

func (r *fakeRevisionRepo) Delete(ctx context.Context, id uint64) error {
	for i, rev := range r.revisions {
		if rev.ID == id {
			r.revisions = append(r.revisions[:i], r.revisions[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakePostStore holds live posts and records snapshot writes
type fakePostStore struct {
	posts map[uint64]*domain.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[uint64]*domain.Post)}
}

func (s *fakePostStore) FindByID(ctx context.Context, id uint64) (*domain.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *fakePostStore) ApplySnapshot(ctx context.Context, postID uint64, title, content, status string) error {
	post, ok := s.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.Title = title
	post.Content = content
	post.Status = status
	return nil
}

func numbers(revisions []domain.PostRevision) []uint {
	result := make([]uint, 0, len(revisions))
	for _, rev := range revisions {
		result = append(result, rev.RevisionNumber)
	}
	return result
}

func TestCreateRevision_SequentialNumbering(t *testing.T) {
	repo := newFakeRevisionRepo()
	service := NewService(repo, newFakePostStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := service.CreateRevision(ctx, 1, Snapshot{Title: "t", Content: "c", Status: "draft"})
		assert.NoError(t, err)
	}

	revisions, err := service.ListForPost(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, []uint{3, 2, 1}, numbers(revisions))
}

func TestCreateRevision_EvictsOldestPastCap(t *testing.T) {
	repo := newFakeRevisionRepo()
	service := NewService(repo, newFakePostStore())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := service.CreateRevision(ctx, 1, Snapshot{Title: "t", Content: "c", Status: "draft"})
		assert.NoError(t, err)
	}

	count, err := repo.CountByPostID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(MaxRevisions), count)

	// Numbers keep growing while eviction leaves a gap at the bottom
	revisions, err := service.ListForPost(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, []uint{5, 4, 3}, numbers(revisions))
}

func TestCreateRevision_CapIsPerPost(t *testing.T) {
	repo := newFakeRevisionRepo()
	service := NewService(repo, newFakePostStore())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		assert.NoError(t, service.CreateRevision(ctx, 1, Snapshot{Title: "a", Content: "c", Status: "draft"}))
	}
	assert.NoError(t, service.CreateRevision(ctx, 2, Snapshot{Title: "b", Content: "c", Status: "draft"}))

	countOther, err := repo.CountByPostID(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), countOther)

	revisions, err := service.ListForPost(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, []uint{1}, numbers(revisions))
}

func TestRestoreRevision_OverwritesSnapshotFieldsOnly(t *testing.T) {
	repo := newFakeRevisionRepo()
	posts := newFakePostStore()
	service := NewService(repo, posts)
	ctx := context.Background()

	mediaID := uint64(7)
	posts.posts[1] = &domain.Post{
		ID:              1,
		Title:           "Current title",
		Slug:            "original-slug",
		Content:         "Current content",
		Status:          "published",
		FeaturedMediaID: &mediaID,
	}

	assert.NoError(t, service.CreateRevision(ctx, 1, Snapshot{
		Title:   "Old title",
		Content: "Old content",
		Status:  "draft",
	}))

	revisions, err := service.ListForPost(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, revisions, 1)

	ok, err := service.RestoreRevision(ctx, revisions[0].ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	restored := posts.posts[1]
	assert.Equal(t, "Old title", restored.Title)
	assert.Equal(t, "Old content", restored.Content)
	assert.Equal(t, "draft", restored.Status)

	// Identity and scheduling fields survive the restore untouched
	assert.Equal(t, "original-slug", restored.Slug)
	assert.Equal(t, &mediaID, restored.FeaturedMediaID)
}

func TestRestoreRevision_SnapshotsCurrentStateFirst(t *testing.T) {
	repo := newFakeRevisionRepo()
	posts := newFakePostStore()
	service := NewService(repo, posts)
	ctx := context.Background()

	posts.posts[1] = &domain.Post{
		ID:      1,
		Title:   "Current title",
		Content: "Current content",
		Status:  "published",
	}

	assert.NoError(t, service.CreateRevision(ctx, 1, Snapshot{
		Title:   "Old title",
		Content: "Old content",
		Status:  "draft",
	}))

	revisions, _ := service.ListForPost(ctx, 1)
	ok, err := service.RestoreRevision(ctx, revisions[0].ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	// The restore itself added a revision holding the pre-restore state,
	// so the restore is undoable
	revisions, err = service.ListForPost(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, revisions, 2)
	assert.Equal(t, "Current title", revisions[0].Title)
	assert.Equal(t, "published", revisions[0].Status)
	assert.Equal(t, uint(2), revisions[0].RevisionNumber)
}

func TestRestoreRevision_MissingRevision(t *testing.T) {
	service := NewService(newFakeRevisionRepo(), newFakePostStore())

	ok, err := service.RestoreRevision(context.Background(), 999)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreRevision_PostGone(t *testing.T) {
	repo := newFakeRevisionRepo()
	service := NewService(repo, newFakePostStore())
	ctx := context.Background()

	// A revision whose parent post no longer exists
	assert.NoError(t, service.CreateRevision(ctx, 1, Snapshot{Title: "t", Content: "c", Status: "draft"}))
	revisions, _ := service.ListForPost(ctx, 1)

	ok, err := service.RestoreRevision(ctx, revisions[0].ID)
	assert.NoError(t, err)
	assert.False(t, ok)
}
