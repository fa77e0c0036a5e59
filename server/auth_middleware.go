package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/mpigajesse/yoozak-backoffice/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated user record
	ContextKeyUser ContextKey = "user"
	// ContextKeyClaims stores parsed token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireAuth is middleware that validates a Bearer access token and loads
// the authenticated user into the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := s.accessTokens.Verify(parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Given token not valid for any token type")
				return
			}

			user, err := s.repos.Users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "User not found")
				return
			}
			if !user.IsActive {
				respondError(w, http.StatusUnauthorized, "User account is disabled")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireStaff is middleware that rejects non-staff accounts.
// Should be chained after RequireAuth.
func (s *Server) RequireStaff() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !user.IsStaff {
				respondError(w, http.StatusForbidden, "You do not have permission to perform this action.")
				return
			}
			next(w, r)
		}
	}
}

// RequireSuperuser is middleware that rejects anyone but superusers.
// Should be chained after RequireAuth.
func (s *Server) RequireSuperuser() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !user.IsSuperuser {
				respondError(w, http.StatusForbidden, "Superuser privileges required")
				return
			}
			next(w, r)
		}
	}
}

// UserFromContext returns the authenticated user, or nil when the request
// did not pass through RequireAuth.
func UserFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(ContextKeyUser).(*users.User)
	return user
}
