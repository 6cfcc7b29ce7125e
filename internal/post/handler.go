package post

import (
	"cms-admin-panel/internal/errors"
	"cms-admin-panel/internal/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type PostRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=255"`
	Content         string     `json:"content" binding:"required,min=10"`
	Status          string     `json:"status" binding:"required,oneof=draft published"`
	FeaturedMediaID *uint64    `json:"featured_media_id"`
	PublishedAt     *time.Time `json:"published_at"`
	MetaTitle       *string    `json:"meta_title" binding:"omitempty,max=70"`
	MetaDescription *string    `json:"meta_description" binding:"omitempty,max=160"`
}

type UpdateRequest struct {
	PostRequest
	LockToken string `json:"lock_token" binding:"required"`
}

func (r *PostRequest) toForm() Form {
	return Form{
		Title:           r.Title,
		Content:         r.Content,
		Status:          r.Status,
		FeaturedMediaID: r.FeaturedMediaID,
		PublishedAt:     r.PublishedAt,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var form PostRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), form.toForm())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) Index(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.ListPosts(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Edit opens the post for editing: acquires the lock and returns the post
// together with the lock token the update must echo back.
func (h *Handler) Edit(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID, _ := c.Get("user_id")

	session, err := h.service.OpenForEdit(c.Request.Context(), postID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) Update(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID, _ := c.Get("user_id")

	var form UpdateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	updateForm := UpdateForm{
		Form:      form.toForm(),
		LockToken: form.LockToken,
	}
	if err := h.service.UpdatePost(c.Request.Context(), postID, userID.(uint64), updateForm); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) LockStatus(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	info, remaining, err := h.service.GetLockInfo(c.Request.Context(), postID)
	if err != nil {
		c.Error(err)
		return
	}

	if info == nil {
		c.JSON(http.StatusOK, gin.H{"locked": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locked":            true,
		"holder_id":         info.HolderID,
		"holder_name":       info.HolderName,
		"locked_at":         info.LockedAt,
		"remaining_minutes": remaining,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), postID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Trash(c *gin.Context) {
	posts, err := h.service.ListTrash(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *Handler) RestoreFromTrash(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.service.RestoreFromTrash(c.Request.Context(), postID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ForceDelete(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.service.ForceDeletePost(c.Request.Context(), postID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Revisions(c *gin.Context) {
	postID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	revisions, err := h.service.ListRevisions(c.Request.Context(), postID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": revisions})
}

func (h *Handler) ShowRevision(c *gin.Context) {
	revisionID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	rev, err := h.service.GetRevision(c.Request.Context(), revisionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, rev)
}

func (h *Handler) RestoreRevision(c *gin.Context) {
	revisionID, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.service.RestoreRevision(c.Request.Context(), revisionID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("Invalid id", err)
	}
	return id, nil
}
