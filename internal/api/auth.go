package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/logger"
	"github.com/oggyb/liftlink/internal/session"
)

type userIDKey struct{}

// TokenFromRequest reads the session token from the Authorization header.
// Both a raw token and "Bearer <token>" are accepted.
func TokenFromRequest(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireUser resolves the caller through the session store and rejects
// anonymous requests with 401.
func RequireUser(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				Error(w, r, apperr.Unauthenticated("Unauthorized"))
				return
			}
			userID, err := store.Resolve(r.Context(), token)
			if errors.Is(err, session.ErrNotFound) {
				Error(w, r, apperr.Unauthenticated("Unauthorized"))
				return
			} else if err != nil {
				Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx, nil).With("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated caller, or "" outside RequireUser.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// WithUserID is used by tests that call handlers directly.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}
