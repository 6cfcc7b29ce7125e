package user

import (
	"cms-admin-panel/internal/domain"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *domain.User) error
	FindByEmail(email string) (*domain.User, error)
	FindByID(id uint64) (*domain.User, error)
	List() ([]domain.User, error)
	Update(id uint64, name, role string) error
	UpdatePasswordHash(id uint64, hash string) error
	SetActive(id uint64, active bool) error
	IncreaseTokenVersion(id uint64) error
}

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new user repository
func NewRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create creates a new user
func (r *UserRepositoryImpl) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

// FindByEmail finds a user by email
func (r *UserRepositoryImpl) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, err
}

// FindByID finds a user by ID
func (r *UserRepositoryImpl) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by id
func (r *UserRepositoryImpl) List() ([]domain.User, error) {
	var users []domain.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// Update changes a user's name and role
func (r *UserRepositoryImpl) Update(id uint64, name, role string) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "role": role}).Error
}

// UpdatePasswordHash replaces a user's password hash
func (r *UserRepositoryImpl) UpdatePasswordHash(id uint64, hash string) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// SetActive enables or disables an account
func (r *UserRepositoryImpl) SetActive(id uint64, active bool) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// IncreaseTokenVersion invalidates all issued tokens for the user
func (r *UserRepositoryImpl) IncreaseTokenVersion(id uint64) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}
