package user

import (
	"cms-admin-panel/internal/auth"
	"cms-admin-panel/internal/domain"
	"cms-admin-panel/internal/errors"
	"cms-admin-panel/internal/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// LoginURLProvider builds the Google consent-screen redirect
type LoginURLProvider interface {
	LoginURL() string
}

// Handler handles HTTP requests for users
type Handler struct {
	service   Service
	googleURL LoginURLProvider
}

// NewHandler creates a new user handler
func NewHandler(service Service, googleURL LoginURLProvider) *Handler {
	return &Handler{service: service, googleURL: googleURL}
}

// FormLogin represents login form data
type FormLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FormRegister represents registration form data
type FormRegister struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles user registration
func (h *Handler) Register(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user := &domain.User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		IsActive: true,
	}

	if err := h.service.Register(user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToSafeUser()})
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user, err := h.service.Login(form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	h.respondWithToken(c, user)
}

// GoogleLogin redirects the browser to the Google consent screen
func (h *Handler) GoogleLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, h.googleURL.LoginURL())
}

// GoogleCallback completes the OAuth dance
func (h *Handler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Error(errors.BadRequest("Missing authorization code", nil))
		return
	}

	user, err := h.service.LoginWithGoogle(c.Request.Context(), code)
	if err != nil {
		c.Error(err)
		return
	}

	h.respondWithToken(c, user)
}

func (h *Handler) respondWithToken(c *gin.Context, user *domain.User) {
	accessToken, err := auth.GenerateJWT(user.ID, user.TokenVersion)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"user":         user.ToSafeUser(),
	})
}

// Logout invalidates every token issued to the user so far
func (h *Handler) Logout(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.IncreaseTokenVersion(userID.(uint64)); err != nil {
		logger.Get().Error().Err(err).Msg("logout failed")
	}
	c.Status(http.StatusNoContent)
}

// GetProfile handles getting the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.Error(errors.Unauthorized("user not found", nil))
		return
	}

	user, err := h.service.GetUserByID(userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ToSafeUser())
}

// Index lists all accounts (admin only)
func (h *Handler) Index(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

type FormCreateUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin editor"`
}

// Create adds an account from the admin panel
func (h *Handler) Create(c *gin.Context) {
	var form FormCreateUser
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user := &domain.User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
		IsActive: true,
	}

	if err := h.service.Register(user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToSafeUser()})
}

type FormUpdateUser struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required,oneof=admin editor"`
}

// Update changes a user's name and role
func (h *Handler) Update(c *gin.Context) {
	userID, err := paramID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var form FormUpdateUser
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	if err := h.service.UpdateUser(userID, form.Name, form.Role); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

type FormResetPassword struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword replaces a user's password
func (h *Handler) ResetPassword(c *gin.Context) {
	userID, err := paramID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var form FormResetPassword
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	if err := h.service.ResetPassword(userID, form.Password); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Disable deactivates an account
func (h *Handler) Disable(c *gin.Context) {
	h.setActive(c, false)
}

// Enable reactivates an account
func (h *Handler) Enable(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	userID, err := paramID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.service.SetActive(userID, active); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func paramID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("Invalid id", err)
	}
	return id, nil
}
