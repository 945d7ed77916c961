package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/utilities"
)

type userIDKey struct{}

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext retrieves the authenticated user id (if any).
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrNoToken
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidToken
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", ErrInvalidToken
	}
	return tok, nil
}

// Middleware returns a middleware that rejects requests without a valid
// bearer token and stores the verified user id in the request context.
func Middleware(svc *TokenService, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := BearerToken(r)
			if err != nil {
				if errors.Is(err, ErrNoToken) {
					utilities.WriteError(w, http.StatusUnauthorized, "No token provided", "NO_TOKEN")
					return
				}
				utilities.WriteError(w, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
				return
			}
			userID, err := svc.Verify(tok)
			if err != nil {
				logger.Debugw("token rejected", "err", err)
				if errors.Is(err, ErrTokenExpired) {
					utilities.WriteError(w, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
					return
				}
				utilities.WriteError(w, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
