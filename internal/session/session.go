// Package session holds per-user state between requests: identity and the
// single cached generation result.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dgallion1/bloomgen/internal/questions"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is passed into and returned from every pipeline call. Last is the
// one cache slot, overwritten by each run and cleared by Reset.
type Session struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Role      string            `json:"role"`
	Last      *questions.Result `json:"last,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New starts a session for an authenticated user.
func New(username, role string) Session {
	now := time.Now().UTC()
	return Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithResult returns a copy with the cache slot replaced.
func (s Session) WithResult(r *questions.Result) Session {
	s.Last = r
	s.UpdatedAt = time.Now().UTC()
	return s
}

// Reset returns a copy with the cache slot cleared.
func (s Session) Reset() Session {
	return s.WithResult(nil)
}

// Store persists sessions by ID.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	// Update overwrites an existing session and fails with
	// ErrSessionNotFound once it has been deleted or has expired.
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
