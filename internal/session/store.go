// Package session issues opaque bearer tokens and maps them back to user ids.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oggyb/liftlink/internal/config"
)

// ErrNotFound is returned by Resolve for unknown, revoked or expired tokens.
var ErrNotFound = errors.New("session not found")

// Store maps session tokens to user ids.
// A user may hold any number of concurrent sessions.
type Store interface {
	// Create issues a fresh token bound to userID.
	Create(ctx context.Context, userID string) (string, error)
	// Resolve returns the user bound to token, or ErrNotFound.
	Resolve(ctx context.Context, token string) (string, error)
	// Delete revokes one token. Unknown tokens are ignored.
	Delete(ctx context.Context, token string) error
	// DeleteUser revokes every token of userID.
	DeleteUser(ctx context.Context, userID string) error
	// Flush revokes everything.
	Flush(ctx context.Context) error
}

// New picks the backend named by SESSION_BACKEND.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Session.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.Session.TTL), nil
	case "redis":
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func newToken() string {
	return uuid.NewString()
}
