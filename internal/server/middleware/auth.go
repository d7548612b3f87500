// Package middleware holds the HTTP request pipeline pieces: bearer-token verification,
// identity propagation, and request logging.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/httpx"
	"org-membership-service/internal/security"
)

const bearerPrefix = "bearer "

// Guard errors; httpx.WriteError maps them to 401/403.
var (
	ErrTokenMissing = apperr.New(apperr.KindTokenMissing, "Authentication required")
	ErrTokenInvalid = apperr.New(apperr.KindTokenInvalid, "Invalid token")
	ErrTokenExpired = apperr.New(apperr.KindTokenExpired, "Token expired")
)

// TokenVerifier verifies identity tokens.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// Verify authenticates r from its Authorization header. A missing, blank, or non-Bearer
// header is ErrTokenMissing; a bad token is ErrTokenInvalid; an expired one is ErrTokenExpired.
func Verify(r *http.Request, tokens TokenVerifier) (Identity, error) {
	token := extractBearer(r.Header.Get("Authorization"))
	if token == "" {
		return Identity{}, ErrTokenMissing
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	return Identity{UserID: claims.UserID, FirstName: claims.FirstName}, nil
}

// RequireAuth rejects requests that fail Verify and stores the Identity in the request
// context for the rest.
func RequireAuth(tokens TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := Verify(r, tokens)
			if err != nil {
				httpx.WriteError(w, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// extractBearer returns the token from an Authorization header value, or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
