package stats

import (
	"cms-admin-panel/internal/domain"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Stats feeds the admin dashboard
type Stats struct {
	Posts          int64 `json:"posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`
	TrashedPosts   int64 `json:"trashed_posts"`
	Users          int64 `json:"users"`
	Media          int64 `json:"media"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&domain.Post{}).Count(&stats.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Post{}).Where("status = ?", domain.StatusPublished).Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Post{}).Where("status = ?", domain.StatusDraft).Count(&stats.DraftPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Unscoped().Model(&domain.Post{}).Where("deleted_at IS NOT NULL").Count(&stats.TrashedPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Media{}).Count(&stats.Media).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Show(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
