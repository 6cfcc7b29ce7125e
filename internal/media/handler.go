package media

import (
	"cms-admin-panel/internal/errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Index(c *gin.Context) {
	files, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": files})
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("No file uploaded", err))
		return
	}

	dst, err := h.service.NewStoragePath(file.Filename)
	if err != nil {
		c.Error(err)
		return
	}

	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.Error(errors.Internal(err))
		return
	}

	m, err := h.service.Record(
		c.Request.Context(),
		file.Filename,
		dst,
		file.Size,
		c.PostForm("alt_text"),
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid id", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
