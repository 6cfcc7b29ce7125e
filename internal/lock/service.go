package lock

import (
	"context"
	"strconv"
	"time"
)

// TimeoutMinutes is how long an editorial lock stays active without a refresh
const TimeoutMinutes = 15

// Info describes the current holder of a post's editorial lock
type Info struct {
	HolderID   uint64    `json:"holder_id"`
	HolderName string    `json:"holder_name"`
	LockedAt   time.Time `json:"locked_at"`
}

// Repository persists the lock columns on the posts row
type Repository interface {
	// GetLock returns nil when the post has no holder
	GetLock(ctx context.Context, postID uint64) (*Info, error)
	// SetLock writes holder + a server-side timestamp unconditionally
	SetLock(ctx context.Context, postID uint64, userID uint64) error
	// ClearLock clears both lock columns unconditionally
	ClearLock(ctx context.Context, postID uint64) error
}

// Service serializes concurrent edit sessions on a single post. The lock is
// advisory and expiring: acquire is an unconditional take-or-refresh write,
// and expired locks are reclaimed lazily on the next read instead of by a
// background sweeper.
type Service interface {
	Acquire(ctx context.Context, postID uint64, userID uint64) error
	Release(ctx context.Context, postID uint64) error
	IsLockedByOther(ctx context.Context, postID uint64, userID uint64) (bool, error)
	IsLockedByUser(ctx context.Context, postID uint64, userID uint64) (bool, error)
	GetInfo(ctx context.Context, postID uint64) (*Info, error)
	RemainingMinutes(info *Info) int
}

type DefaultService struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) Service {
	return &DefaultService{
		repository: repository,
		now:        time.Now,
	}
}

// Acquire takes the lock, or refreshes it when the caller already holds it.
// This is last-writer-wins: the caller must gate entry with IsLockedByOther
// first, Acquire itself never checks the current holder.
func (s *DefaultService) Acquire(ctx context.Context, postID uint64, userID uint64) error {
	return s.repository.SetLock(ctx, postID, userID)
}

// Release clears the lock regardless of holder
func (s *DefaultService) Release(ctx context.Context, postID uint64) error {
	return s.repository.ClearLock(ctx, postID)
}

// IsLockedByOther reports whether another user holds an active lock.
// Read-with-reclaim: observing an expired lock releases it as a side effect,
// so abandoned locks heal on the next visit.
func (s *DefaultService) IsLockedByOther(ctx context.Context, postID uint64, userID uint64) (bool, error) {
	info, err := s.repository.GetLock(ctx, postID)
	if err != nil {
		return false, err
	}

	if info == nil {
		return false, nil // Not locked
	}

	if info.HolderID == userID {
		return false, nil // Locked by same user
	}

	// Locked by someone else - check if expired
	if s.expired(info) {
		if err := s.repository.ClearLock(ctx, postID); err != nil {
			return false, err
		}
		return false, nil // Was expired, now released
	}

	return true, nil
}

// IsLockedByUser reports whether userID holds an active lock on the post
func (s *DefaultService) IsLockedByUser(ctx context.Context, postID uint64, userID uint64) (bool, error) {
	info, err := s.repository.GetLock(ctx, postID)
	if err != nil {
		return false, err
	}

	if info == nil {
		return false, nil
	}

	return info.HolderID == userID && !s.expired(info), nil
}

// GetInfo returns the stored lock, nil when the post has no holder
func (s *DefaultService) GetInfo(ctx context.Context, postID uint64) (*Info, error) {
	return s.repository.GetLock(ctx, postID)
}

// RemainingMinutes returns how many minutes the lock stays valid, never negative
func (s *DefaultService) RemainingMinutes(info *Info) int {
	if info == nil {
		return 0
	}

	elapsed := int(s.now().Sub(info.LockedAt).Minutes())
	remaining := TimeoutMinutes - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *DefaultService) expired(info *Info) bool {
	return s.now().Sub(info.LockedAt) > TimeoutMinutes*time.Minute
}

// Token serializes the lock timestamp as the opaque value embedded in the
// edit form. On submit a mismatch against the currently stored timestamp
// means the lock was refreshed or reassigned since the form was loaded.
func Token(info *Info) string {
	if info == nil {
		return ""
	}
	return strconv.FormatInt(info.LockedAt.UnixNano(), 10)
}

// TokenMatches compares a submitted token against the stored lock
func TokenMatches(info *Info, token string) bool {
	return info != nil && token != "" && Token(info) == token
}
