package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
	User    any    `json:"user"`
}

// LoginHandler authenticates a staff account and issues a token pair.
// Customer accounts can hold valid credentials but are refused here: the
// back office is staff only.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		user, err := s.repos.Users.GetByUsername(r.Context(), req.Username)
		if err != nil {
			// Don't reveal whether the account exists
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.CheckPassword(req.Password) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.IsActive {
			respondError(w, http.StatusUnauthorized, "User account is disabled")
			return
		}
		if !user.IsStaff {
			respondError(w, http.StatusForbidden, "Access restricted to staff accounts")
			return
		}

		access, err := s.accessTokens.CreateAccessToken(user)
		if err != nil {
			log.Error().Err(err).Msg("[Server LoginHandler] create access token")
			respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}
		refreshToken, err := s.refreshTokens.Create(r.Context(), user.ID)
		if err != nil {
			log.Error().Err(err).Msg("[Server LoginHandler] create refresh token")
			respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}

		if err := s.repos.Users.SetLastLogin(r.Context(), user.ID, time.Now()); err != nil {
			log.Warn().Err(err).Int64("user_id", user.ID).Msg("[Server LoginHandler] set last login")
		}

		respondJSON(w, http.StatusOK, loginResponse{
			Refresh: refreshToken,
			Access:  access,
			User:    user.AdminPayload(),
		})
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshHandler exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated. The staff check is repeated so a
// demoted account loses access when its access token expires.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil || req.Refresh == "" {
			respondError(w, http.StatusBadRequest, "Refresh token is required")
			return
		}

		stored, err := s.refreshTokens.Validate(r.Context(), req.Refresh)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), stored.UserID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		if !user.IsActive {
			respondError(w, http.StatusUnauthorized, "User account is disabled")
			return
		}
		if !user.IsStaff {
			respondError(w, http.StatusForbidden, "Access restricted to staff accounts")
			return
		}

		access, err := s.accessTokens.CreateAccessToken(user)
		if err != nil {
			log.Error().Err(err).Msg("[Server RefreshHandler] create access token")
			respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"access": access})
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

// VerifyTokenHandler checks an access token's signature and expiry.
func (s *Server) VerifyTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := decodeJSON(r, &req); err != nil || req.Token == "" {
			respondError(w, http.StatusBadRequest, "Token is required")
			return
		}
		if _, err := s.accessTokens.Verify(req.Token); err != nil {
			respondJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Token is invalid or expired",
				"code":   "token_not_valid",
			})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{})
	}
}
