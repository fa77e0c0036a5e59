package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/internal/utils"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

const defaultPageSize = 10

type paginatedResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// UsersListHandler serves the paginated admin user list.
func (s *Server) UsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", defaultPageSize)
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = defaultPageSize
		}

		resp, err := s.repos.Users.List(r.Context(), (page-1)*pageSize, pageSize)
		if err != nil {
			log.Error().Err(err).Msg("[Server UsersListHandler] list users")
			respondError(w, http.StatusInternalServerError, "Failed to list users")
			return
		}

		results := make([]users.AdminPayload, 0, len(resp.Users))
		for _, user := range resp.Users {
			results = append(results, user.AdminPayload())
		}

		respondJSON(w, http.StatusOK, paginatedResponse{
			Count:    resp.Total,
			Next:     pageLink(r, page+1, pageSize, (page*pageSize) < resp.Total),
			Previous: pageLink(r, page-1, pageSize, page > 1),
			Results:  results,
		})
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func pageLink(r *http.Request, page, pageSize int, exists bool) *string {
	if !exists {
		return nil
	}
	return utils.Ptr(fmt.Sprintf("%s?page=%d&page_size=%d", r.URL.Path, page, pageSize))
}

type userCreateRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserCreateHandler creates a new back-office account.
func (s *Server) UserCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("[Server UserCreateHandler] hash password")
			respondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		user := &users.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			IsStaff:      req.IsStaff,
			IsSuperuser:  req.IsSuperuser,
			IsActive:     true,
		}
		if err := s.repos.Users.Create(r.Context(), user); err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				respondError(w, http.StatusBadRequest, "Username already taken")
				return
			}
			log.Error().Err(err).Msg("[Server UserCreateHandler] create user")
			respondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		respondJSON(w, http.StatusCreated, user.AdminPayload())
	}
}

// UserDeleteHandler removes an account. Superuser only; self-deletion is
// refused so the last superuser cannot lock everyone out mid-session.
func (s *Server) UserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		actor := UserFromContext(r.Context())
		if actor.ID == id {
			respondError(w, http.StatusBadRequest, "Cannot delete your own account")
			return
		}

		if err := s.repos.Users.Delete(r.Context(), id); err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error().Err(err).Int64("user_id", id).Msg("[Server UserDeleteHandler] delete user")
			respondError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}

		respondJSON(w, http.StatusNoContent, nil)
	}
}

// UserDetailHandler serves GET/PATCH/DELETE on a single account.
func (s *Server) UserDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			respondJSON(w, http.StatusOK, user.AdminPayload())

		case http.MethodPatch:
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
				log.Error().Err(err).Int64("user_id", id).Msg("[Server UserDetailHandler] update user")
				respondError(w, http.StatusInternalServerError, "Failed to update user")
				return
			}
			respondJSON(w, http.StatusOK, user.AdminPayload())

		case http.MethodDelete:
			actor := UserFromContext(r.Context())
			if !actor.IsSuperuser {
				respondError(w, http.StatusForbidden, "Superuser privileges required")
				return
			}
			if actor.ID == id {
				respondError(w, http.StatusBadRequest, "Cannot delete your own account")
				return
			}
			if err := s.repos.Users.Delete(r.Context(), id); err != nil {
				log.Error().Err(err).Int64("user_id", id).Msg("[Server UserDetailHandler] delete user")
				respondError(w, http.StatusInternalServerError, "Failed to delete user")
				return
			}
			respondJSON(w, http.StatusNoContent, nil)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
