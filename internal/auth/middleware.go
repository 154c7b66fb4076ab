package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/trailglobe/trailglobe/internal/httputil"
	"github.com/trailglobe/trailglobe/internal/logging"
	"github.com/trailglobe/trailglobe/internal/token"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const principalContextKey ContextKey = "principal"

// Principal is the decoded session identity attached to the request context.
type Principal struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	IsAdmin bool
}

// Middleware handles session validation for protected routes
type Middleware struct {
	verifier SessionVerifier
}

func NewMiddleware(verifier SessionVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// RequireSession validates the bearer session token and attaches the decoded
// principal to the request context. On failure the wrapped handler never runs.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondMessage(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondMessage(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		claims, err := m.verifier.VerifySession(parts[1])
		if err != nil {
			// Expired and forged tokens get the same response; only the log
			// tells them apart.
			if errors.Is(err, token.ErrTokenExpired) {
				logger.Warn("session token expired")
			} else {
				logger.Warn("session token rejected", "error", err)
			}
			httputil.RespondMessage(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			logger.Warn("session token carries invalid user id", "error", err)
			httputil.RespondMessage(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		principal := Principal{
			UserID:  userID,
			Name:    claims.Name,
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipalFromContext extracts the session principal from the request context
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(Principal)
	return principal, ok
}
