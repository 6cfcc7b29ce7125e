package domain

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User represents a staff account in the admin panel
type User struct {
	ID           uint64
	Name         string
	Email        string `gorm:"uniqueIndex"`
	Password     string `gorm:"-"` // input only, not stored in db
	PasswordHash string
	Role         string `gorm:"default:editor"`
	AuthProvider string `gorm:"default:local"` // local | google
	TokenVersion uint   `gorm:"default:0"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// ToSafeUser converts a User to a SafeUser
func (u *User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
	}
}

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog post. The lock columns (LockedBy/LockedAt) carry the
// advisory editorial lock; there is no separate lock entity.
type Post struct {
	ID              uint64         `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug" gorm:"uniqueIndex"`
	Content         string         `json:"content"`
	Status          string         `json:"status" gorm:"default:draft"`
	FeaturedMediaID *uint64        `json:"featured_media_id"`
	PublishedAt     *time.Time     `json:"published_at"`
	MetaTitle       *string        `json:"meta_title"`
	MetaDescription *string        `json:"meta_description"`
	LockedBy        *uint64        `json:"locked_by"`
	LockedAt        *time.Time     `json:"locked_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// PostRevision is an immutable snapshot of a post's editable fields taken
// before a mutation. RevisionNumber is per-post, starts at 1 and is never
// reused, even after older revisions are evicted.
type PostRevision struct {
	ID             uint64    `json:"id"`
	PostID         uint64    `json:"post_id" gorm:"index:idx_post_revision,priority:1"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	RevisionNumber uint      `json:"revision_number" gorm:"index:idx_post_revision,priority:2"`
	CreatedAt      time.Time `json:"created_at"`
}

// Media is an uploaded file stored on disk with its metadata in the db
type Media struct {
	ID        uint64    `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	AltText   string    `json:"alt_text"`
	CreatedAt time.Time `json:"created_at"`
}
