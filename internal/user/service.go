package user

import (
	"cms-admin-panel/internal/auth"
	"cms-admin-panel/internal/domain"
	"cms-admin-panel/internal/errors"
	"context"
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GoogleProvider resolves an OAuth authorization code to a Google profile
type GoogleProvider interface {
	FetchUser(ctx context.Context, code string) (*auth.GoogleUser, error)
}

// Service defines the interface for user business logic
type Service interface {
	Register(user *domain.User) error
	Login(email, password string) (*domain.User, error)
	LoginWithGoogle(ctx context.Context, code string) (*domain.User, error)
	GetUserByID(id uint64) (*domain.User, error)
	ListUsers() ([]domain.SafeUser, error)
	UpdateUser(id uint64, name, role string) error
	ResetPassword(id uint64, newPassword string) error
	SetActive(id uint64, active bool) error
	IncreaseTokenVersion(id uint64) error
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
	google     GoogleProvider
}

// NewService creates a new user service
func NewService(repository UserRepository) *DefaultService {
	return &DefaultService{repository: repository}
}

// WithGoogle attaches the OAuth client
func (s *DefaultService) WithGoogle(google GoogleProvider) *DefaultService {
	s.google = google
	return s
}

// Register registers a new user
func (s *DefaultService) Register(user *domain.User) error {
	// Check if user with email already exists
	_, err := s.repository.FindByEmail(user.Email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil {
		return errors.UnprocessableEntity("User already registered", nil)
	}

	// Hash the password before saving
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Can't hash password", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true
	if user.Role == "" {
		user.Role = domain.RoleEditor
	}
	if user.AuthProvider == "" {
		user.AuthProvider = "local"
	}

	// Create user
	return s.repository.Create(user)
}

// Login authenticates a user
func (s *DefaultService) Login(email, password string) (*domain.User, error) {
	// Find user by email
	user, err := s.repository.FindByEmail(email)
	if err != nil {
		return nil, errors.Unauthorized("User not found", err)
	}

	// Check if user is active
	if !user.IsActive {
		return nil, errors.Unauthorized("User is not active", nil)
	}

	// Check password
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.UnprocessableEntity("Wrong password", err)
	}

	return user, nil
}

// LoginWithGoogle exchanges the OAuth code and finds or creates the account
func (s *DefaultService) LoginWithGoogle(ctx context.Context, code string) (*domain.User, error) {
	if s.google == nil {
		return nil, errors.UnprocessableEntity("Google login is not configured", nil)
	}

	profile, err := s.google.FetchUser(ctx, code)
	if err != nil {
		return nil, errors.Unauthorized("Google login failed", err)
	}

	user, err := s.repository.FindByEmail(profile.Email)
	if err == nil {
		if !user.IsActive {
			return nil, errors.Unauthorized("User is not active", nil)
		}
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// First Google sign-in: create the account with an unguessable password
	user = &domain.User{
		Name:         profile.Name,
		Email:        profile.Email,
		Password:     randomPassword(),
		Role:         domain.RoleEditor,
		AuthProvider: "google",
	}
	if err := s.Register(user); err != nil {
		return nil, err
	}

	return user, nil
}

func randomPassword() string {
	b := make([]byte, 24)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(id uint64) (*domain.User, error) {
	return s.repository.FindByID(id)
}

// ListUsers returns all accounts for the admin overview
func (s *DefaultService) ListUsers() ([]domain.SafeUser, error) {
	users, err := s.repository.List()
	if err != nil {
		return nil, err
	}

	result := make([]domain.SafeUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.ToSafeUser())
	}
	return result, nil
}

// UpdateUser changes a user's name and role
func (s *DefaultService) UpdateUser(id uint64, name, role string) error {
	if role != domain.RoleAdmin && role != domain.RoleEditor {
		return errors.UnprocessableEntity("Unknown role", nil)
	}

	if _, err := s.repository.FindByID(id); err != nil {
		return errors.NotFound("User not found", err)
	}

	return s.repository.Update(id, name, role)
}

// ResetPassword replaces a user's password and invalidates issued tokens
func (s *DefaultService) ResetPassword(id uint64, newPassword string) error {
	if _, err := s.repository.FindByID(id); err != nil {
		return errors.NotFound("User not found", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Can't hash password", err)
	}

	if err := s.repository.UpdatePasswordHash(id, string(hashedPassword)); err != nil {
		return err
	}
	return s.repository.IncreaseTokenVersion(id)
}

// SetActive enables or disables an account. Disabling bumps the token
// version so live sessions drop immediately.
func (s *DefaultService) SetActive(id uint64, active bool) error {
	if _, err := s.repository.FindByID(id); err != nil {
		return errors.NotFound("User not found", err)
	}

	if err := s.repository.SetActive(id, active); err != nil {
		return err
	}
	if !active {
		return s.repository.IncreaseTokenVersion(id)
	}
	return nil
}

// IncreaseTokenVersion invalidates all issued tokens for the user
func (s *DefaultService) IncreaseTokenVersion(id uint64) error {
	return s.repository.IncreaseTokenVersion(id)
}
