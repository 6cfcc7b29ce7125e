package post

import (
	"bytes"
	"cms-admin-panel/internal/domain"
	apiError "cms-admin-panel/internal/errors"
	"cms-admin-panel/internal/lock"
	"cms-admin-panel/internal/middleware"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) CreatePost(ctx context.Context, form Form) (*domain.Post, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockService) ListPosts(ctx context.Context, page, pageSize int) (*PaginatedPosts, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaginatedPosts), args.Error(1)
}

func (m *MockService) GetPost(ctx context.Context, id uint64) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockService) OpenForEdit(ctx context.Context, postID uint64, userID uint64) (*EditSession, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EditSession), args.Error(1)
}

func (m *MockService) UpdatePost(ctx context.Context, postID uint64, userID uint64, form UpdateForm) error {
	args := m.Called(ctx, postID, userID, form)
	return args.Error(0)
}

func (m *MockService) GetLockInfo(ctx context.Context, postID uint64) (*lock.Info, int, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*lock.Info), args.Int(1), args.Error(2)
}

func (m *MockService) DeletePost(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) ListTrash(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *MockService) RestoreFromTrash(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) ForceDeletePost(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) ListRevisions(ctx context.Context, postID uint64) ([]domain.PostRevision, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]domain.PostRevision), args.Error(1)
}

func (m *MockService) GetRevision(ctx context.Context, revisionID uint64) (*domain.PostRevision, error) {
	args := m.Called(ctx, revisionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostRevision), args.Error(1)
}

func (m *MockService) RestoreRevision(ctx context.Context, revisionID uint64) error {
	args := m.Called(ctx, revisionID)
	return args.Error(0)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	return router
}

func asEditor(userID uint64, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	}
}

func updatePayload(token string) []byte {
	body, _ := json.Marshal(map[string]any{
		"title":      "Updated title",
		"content":    "Updated content body",
		"status":     "draft",
		"lock_token": token,
	})
	return body
}

func TestEdit_ReturnsLockToken(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	session := &EditSession{
		Post:             &domain.Post{ID: 10, Title: "A post"},
		LockToken:        "1748779200000000000",
		RemainingMinutes: 15,
	}
	mockService.On("OpenForEdit", mock.Anything, uint64(10), uint64(1)).Return(session, nil)

	router.GET("/posts/:id/edit", asEditor(1, handler.Edit))

	req := httptest.NewRequest("GET", "/posts/10/edit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "1748779200000000000", response["lock_token"])
	assert.Equal(t, float64(15), response["remaining_minutes"])
	mockService.AssertExpectations(t)
}

func TestEdit_LockedByOther(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("OpenForEdit", mock.Anything, uint64(10), uint64(1)).
		Return(nil, apiError.Conflict("Post is being edited by Bob", nil))

	router.GET("/posts/:id/edit", asEditor(1, handler.Edit))

	req := httptest.NewRequest("GET", "/posts/10/edit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Post is being edited by Bob", response["error"])
	mockService.AssertExpectations(t)
}

func TestUpdate_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("UpdatePost", mock.Anything, uint64(10), uint64(1),
		mock.MatchedBy(func(form UpdateForm) bool {
			return form.LockToken == "1748779200000000000" && form.Title == "Updated title"
		})).Return(nil)

	router.PUT("/posts/:id", asEditor(1, handler.Update))

	req := httptest.NewRequest("PUT", "/posts/10", bytes.NewBuffer(updatePayload("1748779200000000000")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestUpdate_MissingLockToken(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.PUT("/posts/:id", asEditor(1, handler.Update))

	body, _ := json.Marshal(map[string]any{
		"title":   "Updated title",
		"content": "Updated content body",
		"status":  "draft",
	})
	req := httptest.NewRequest("PUT", "/posts/10", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_StaleToken(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("UpdatePost", mock.Anything, uint64(10), uint64(1), mock.Anything).
		Return(apiError.Conflict("This edit form is stale. Reload the post and try again.", nil))

	router.PUT("/posts/:id", asEditor(1, handler.Update))

	req := httptest.NewRequest("PUT", "/posts/10", bytes.NewBuffer(updatePayload("1111")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.PUT("/posts/:id", asEditor(1, handler.Update))

	body, _ := json.Marshal(map[string]any{
		"title":      "Updated title",
		"content":    "Updated content body",
		"status":     "archived",
		"lock_token": "123",
	})
	req := httptest.NewRequest("PUT", "/posts/10", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShow_InvalidID(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.GET("/posts/:id", handler.Show)

	req := httptest.NewRequest("GET", "/posts/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLockStatus_Unlocked(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("GetLockInfo", mock.Anything, uint64(10)).Return(nil, 0, nil)

	router.GET("/posts/:id/lock", handler.LockStatus)

	req := httptest.NewRequest("GET", "/posts/10/lock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, false, response["locked"])
	mockService.AssertExpectations(t)
}

func TestLockStatus_Held(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	info := &lock.Info{HolderID: 2, HolderName: "Bob", LockedAt: time.Now()}
	mockService.On("GetLockInfo", mock.Anything, uint64(10)).Return(info, 12, nil)

	router.GET("/posts/:id/lock", handler.LockStatus)

	req := httptest.NewRequest("GET", "/posts/10/lock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, true, response["locked"])
	assert.Equal(t, "Bob", response["holder_name"])
	assert.Equal(t, float64(12), response["remaining_minutes"])
	mockService.AssertExpectations(t)
}

func TestRestoreRevision_NotFound(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("RestoreRevision", mock.Anything, uint64(999)).
		Return(apiError.NotFound("Revision or its post no longer exists", nil))

	router.POST("/revisions/:id/restore", handler.RestoreRevision)

	req := httptest.NewRequest("POST", "/revisions/999/restore", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
