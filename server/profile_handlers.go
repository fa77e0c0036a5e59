package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

// ProfileHandler serves the authenticated staff user's own profile.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if !user.IsStaff {
			respondError(w, http.StatusForbidden, "Access restricted to staff accounts")
			return
		}
		respondJSON(w, http.StatusOK, user.AdminPayload())
	}
}

// CurrentUserHandler serves the profile of whoever holds the token. Staff
// accounts get the admin shape; customer accounts get their storefront
// profile, which nests the user record and carries no top-level is_staff key.
func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user.IsStaff {
			respondJSON(w, http.StatusOK, user.AdminPayload())
			return
		}

		client, err := s.repos.Clients.GetByUserID(r.Context(), user.ID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				respondError(w, http.StatusForbidden, "No profile provisioned for this account")
				return
			}
			log.Error().Err(err).Int64("user_id", user.ID).Msg("[Server CurrentUserHandler] load client profile")
			respondError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}
		respondJSON(w, http.StatusOK, client.ProfilePayload(user))
	}
}

type profileUpdateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

// ProfileUpdateHandler applies a partial update to the authenticated staff
// user's own record. Absent fields are left untouched.
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if !user.IsStaff {
			respondError(w, http.StatusForbidden, "Access restricted to staff accounts")
			return
		}

		var req profileUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := applyUserUpdate(user, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.repos.Users.Update(r.Context(), user); err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				respondError(w, http.StatusBadRequest, "Username already taken")
				return
			}
			log.Error().Err(err).Int64("user_id", user.ID).Msg("[Server ProfileUpdateHandler] update user")
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}

		respondJSON(w, http.StatusOK, user.AdminPayload())
	}
}

func applyUserUpdate(user *users.User, req *profileUpdateRequest) error {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := users.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	return nil
}
