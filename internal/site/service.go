package site

import (
	"cms-admin-panel/internal/domain"
	"cms-admin-panel/internal/errors"
	"cms-admin-panel/redis"
	"context"
	defError "errors"
	"fmt"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gorm.io/gorm"
)

const (
	versionKey  = "site:posts:version"
	cacheTTL    = 24 * time.Hour
	latestLimit = 5
)

// PublicPost is the rendered shape the public front end consumes
type PublicPost struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	ContentHTML     string     `json:"content_html"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PostProvider is the slice of the post repository the public site reads from
type PostProvider interface {
	FindPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListPublished(ctx context.Context, limit int) ([]domain.Post, error)
}

type Service interface {
	LatestPosts(ctx context.Context) ([]PublicPost, error)
	PostBySlug(ctx context.Context, slug string) (*PublicPost, error)
}

type DefaultService struct {
	posts PostProvider
	cache *redis.Cache
}

func NewService(posts PostProvider, cache *redis.Cache) Service {
	return &DefaultService{posts: posts, cache: cache}
}

// LatestPosts returns the newest published posts, cached until the admin
// panel bumps the site version key
func (s *DefaultService) LatestPosts(ctx context.Context) ([]PublicPost, error) {
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("site:latest:v:%d", v)

	var cached []PublicPost
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return cached, nil
	}

	posts, err := s.posts.ListPublished(ctx, latestLimit)
	if err != nil {
		return nil, err
	}

	result := make([]PublicPost, 0, len(posts))
	for _, p := range posts {
		result = append(result, toPublicPost(&p))
	}

	go s.cache.Set(context.Background(), cacheKey, result, cacheTTL)

	return result, nil
}

func (s *DefaultService) PostBySlug(ctx context.Context, slug string) (*PublicPost, error) {
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("site:post:%s:v:%d", slug, v)

	var cached PublicPost
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return &cached, nil
	}

	post, err := s.posts.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Post not found", err)
		}
		return nil, err
	}

	result := toPublicPost(post)

	go s.cache.Set(context.Background(), cacheKey, result, cacheTTL)

	return &result, nil
}

func toPublicPost(p *domain.Post) PublicPost {
	return PublicPost{
		Title:           p.Title,
		Slug:            p.Slug,
		ContentHTML:     renderMarkdown(p.Content),
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		PublishedAt:     p.PublishedAt,
		CreatedAt:       p.CreatedAt,
	}
}

func renderMarkdown(content string) string {
	doc := parser.NewWithExtensions(
		parser.CommonExtensions | parser.AutoHeadingIDs,
	).Parse([]byte(content))

	opts := html.RendererOptions{Flags: html.CommonFlags}
	return string(markdown.Render(doc, html.NewRenderer(opts)))
}
