// Package session stores login sessions behind opaque tokens.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/restaurant-pos/internal/model"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

type Store interface {
	// Save stores s under s.Token until ttl elapses.
	Save(ctx context.Context, s model.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns a fresh random token.
func NewToken() string {
	return uuid.NewString()
}
