package post

import (
	"cms-admin-panel/internal/domain"
	"cms-admin-panel/internal/errors"
	"cms-admin-panel/internal/lock"
	"cms-admin-panel/internal/revision"
	"cms-admin-panel/redis"
	"context"
	defError "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// siteVersionKey invalidates the public site cache when published content changes
const siteVersionKey = "site:posts:version"

// Fields shared by the create and update forms
type Form struct {
	Title           string
	Content         string
	Status          string
	FeaturedMediaID *uint64
	PublishedAt     *time.Time
	MetaTitle       *string
	MetaDescription *string
}

// UpdateForm carries the lock token round-tripped through the edit form
type UpdateForm struct {
	Form
	LockToken string
}

// EditSession is what the edit page renders with: the post, the caller's
// lock token and how long the lock stays valid.
type EditSession struct {
	Post             *domain.Post `json:"post"`
	LockToken        string       `json:"lock_token"`
	RemainingMinutes int          `json:"remaining_minutes"`
}

type PaginatedPosts struct {
	Data []domain.Post `json:"data"`
	Meta PostsMeta     `json:"meta"`
}

// MediaProvider validates featured-image references
type MediaProvider interface {
	FindImageByID(ctx context.Context, id uint64) (*domain.Media, error)
}

type Service interface {
	CreatePost(ctx context.Context, form Form) (*domain.Post, error)
	ListPosts(ctx context.Context, page, pageSize int) (*PaginatedPosts, error)
	GetPost(ctx context.Context, id uint64) (*domain.Post, error)
	// OpenForEdit gates entry on the lock and acquires it for the caller
	OpenForEdit(ctx context.Context, postID uint64, userID uint64) (*EditSession, error)
	// UpdatePost validates holder + token, snapshots the pre-mutation state,
	// applies the update and releases the lock
	UpdatePost(ctx context.Context, postID uint64, userID uint64, form UpdateForm) error
	GetLockInfo(ctx context.Context, postID uint64) (*lock.Info, int, error)
	DeletePost(ctx context.Context, id uint64) error
	ListTrash(ctx context.Context) ([]domain.Post, error)
	RestoreFromTrash(ctx context.Context, id uint64) error
	ForceDeletePost(ctx context.Context, id uint64) error
	ListRevisions(ctx context.Context, postID uint64) ([]domain.PostRevision, error)
	GetRevision(ctx context.Context, revisionID uint64) (*domain.PostRevision, error)
	RestoreRevision(ctx context.Context, revisionID uint64) error
}

type DefaultService struct {
	repository Repository
	locks      lock.Service
	revisions  revision.Service
	media      MediaProvider
	cache      *redis.Cache
}

func NewService(
	repository Repository,
	locks lock.Service,
	revisions revision.Service,
	media MediaProvider,
	cache *redis.Cache,
) Service {
	return &DefaultService{
		repository: repository,
		locks:      locks,
		revisions:  revisions,
		media:      media,
		cache:      cache,
	}
}

func (s *DefaultService) CreatePost(ctx context.Context, form Form) (*domain.Post, error) {
	if err := s.validateFeaturedMedia(ctx, form.FeaturedMediaID); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, form.Title)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:           form.Title,
		Slug:            slug,
		Content:         form.Content,
		Status:          form.Status,
		FeaturedMediaID: form.FeaturedMediaID,
		PublishedAt:     form.PublishedAt,
		MetaTitle:       form.MetaTitle,
		MetaDescription: form.MetaDescription,
	}
	if err := s.repository.Create(ctx, post); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, siteVersionKey)
	return post, nil
}

// uniqueSlug probes slug candidates with an increasing -N suffix until a
// free one is found
func (s *DefaultService) uniqueSlug(ctx context.Context, title string) (string, error) {
	baseSlug := Slugify(title)
	if baseSlug == "" {
		baseSlug = "post"
	}

	slug := baseSlug
	counter := 1
	for {
		taken, err := s.repository.SlugTaken(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}
}

func (s *DefaultService) ListPosts(ctx context.Context, page, pageSize int) (*PaginatedPosts, error) {
	posts, meta, err := s.repository.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PaginatedPosts{Data: posts, Meta: meta}, nil
}

func (s *DefaultService) GetPost(ctx context.Context, id uint64) (*domain.Post, error) {
	post, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Post not found", err)
		}
		return nil, err
	}
	return post, nil
}

func (s *DefaultService) OpenForEdit(ctx context.Context, postID uint64, userID uint64) (*EditSession, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	lockedByOther, err := s.locks.IsLockedByOther(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if lockedByOther {
		info, err := s.locks.GetInfo(ctx, postID)
		if err != nil {
			return nil, err
		}
		holder := "another editor"
		if info != nil && info.HolderName != "" {
			holder = info.HolderName
		}
		return nil, errors.Conflict(fmt.Sprintf("Post is being edited by %s", holder), nil)
	}

	// Take or refresh; the gate above already confirmed no other active holder
	if err := s.locks.Acquire(ctx, postID, userID); err != nil {
		return nil, err
	}

	// Re-read to pick up the server-assigned timestamp, which doubles as the
	// stale-submission token
	info, err := s.locks.GetInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &EditSession{
		Post:             post,
		LockToken:        lock.Token(info),
		RemainingMinutes: s.locks.RemainingMinutes(info),
	}, nil
}

func (s *DefaultService) UpdatePost(ctx context.Context, postID uint64, userID uint64, form UpdateForm) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	held, err := s.locks.IsLockedByUser(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !held {
		return errors.Conflict("You no longer hold the edit lock on this post. Reopen it to edit.", nil)
	}

	info, err := s.locks.GetInfo(ctx, postID)
	if err != nil {
		return err
	}
	if !lock.TokenMatches(info, form.LockToken) {
		return errors.Conflict("This edit form is stale. Reload the post and try again.", nil)
	}

	if err := s.validateFeaturedMedia(ctx, form.FeaturedMediaID); err != nil {
		return err
	}

	// Snapshot the pre-mutation state before touching the live row
	snap := revision.Snapshot{
		Title:   post.Title,
		Content: post.Content,
		Status:  post.Status,
	}
	if err := s.revisions.CreateRevision(ctx, postID, snap); err != nil {
		return err
	}

	post.Title = form.Title
	post.Content = form.Content
	post.Status = form.Status
	post.FeaturedMediaID = form.FeaturedMediaID
	post.PublishedAt = form.PublishedAt
	post.MetaTitle = form.MetaTitle
	post.MetaDescription = form.MetaDescription
	if err := s.repository.Update(ctx, post); err != nil {
		return err
	}

	if err := s.locks.Release(ctx, postID); err != nil {
		return err
	}

	s.cache.IncrementVersion(ctx, siteVersionKey)
	return nil
}

func (s *DefaultService) GetLockInfo(ctx context.Context, postID uint64) (*lock.Info, int, error) {
	info, err := s.locks.GetInfo(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if info == nil {
		return nil, 0, nil
	}
	return info, s.locks.RemainingMinutes(info), nil
}

func (s *DefaultService) validateFeaturedMedia(ctx context.Context, mediaID *uint64) error {
	if mediaID == nil {
		return nil
	}
	if _, err := s.media.FindImageByID(ctx, *mediaID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.UnprocessableEntity("Featured image is invalid", err)
		}
		return err
	}
	return nil
}

func (s *DefaultService) DeletePost(ctx context.Context, id uint64) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	if err := s.repository.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.IncrementVersion(ctx, siteVersionKey)
	return nil
}

func (s *DefaultService) ListTrash(ctx context.Context) ([]domain.Post, error) {
	return s.repository.ListTrash(ctx)
}

func (s *DefaultService) RestoreFromTrash(ctx context.Context, id uint64) error {
	if err := s.repository.Restore(ctx, id); err != nil {
		return err
	}
	s.cache.IncrementVersion(ctx, siteVersionKey)
	return nil
}

func (s *DefaultService) ForceDeletePost(ctx context.Context, id uint64) error {
	return s.repository.ForceDelete(ctx, id)
}

func (s *DefaultService) ListRevisions(ctx context.Context, postID uint64) ([]domain.PostRevision, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.revisions.ListForPost(ctx, postID)
}

func (s *DefaultService) GetRevision(ctx context.Context, revisionID uint64) (*domain.PostRevision, error) {
	rev, err := s.revisions.Get(ctx, revisionID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Revision not found", err)
		}
		return nil, err
	}
	return rev, nil
}

func (s *DefaultService) RestoreRevision(ctx context.Context, revisionID uint64) error {
	ok, err := s.revisions.RestoreRevision(ctx, revisionID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("Revision or its post no longer exists", nil)
	}
	s.cache.IncrementVersion(ctx, siteVersionKey)
	return nil
}
