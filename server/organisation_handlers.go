package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/organisation"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

// responsable resolves the responsible user for an organisation record.
// A missing user is served as null rather than failing the whole response.
func (s *Server) responsable(ctx context.Context, id *int64) *users.User {
	if id == nil {
		return nil
	}
	user, err := s.repos.Users.GetByID(ctx, *id)
	if err != nil {
		return nil
	}
	return user
}

type poleRequest struct {
	Nom           string `json:"nom"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	ResponsableID *int64 `json:"responsable"`
	EstActif      *bool  `json:"est_actif"`
}

// PolesHandler serves the pole collection: GET lists, POST creates.
func (s *Server) PolesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			poles, err := s.repos.Organisation.ListPoles(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("[Server PolesHandler] list poles")
				respondError(w, http.StatusInternalServerError, "Failed to list poles")
				return
			}
			results := make([]organisation.PolePayload, 0, len(poles))
			for _, pole := range poles {
				results = append(results, pole.Payload(s.responsable(r.Context(), pole.ResponsableID)))
			}
			respondJSON(w, http.StatusOK, results)

		case http.MethodPost:
			var req poleRequest
			if err := decodeJSON(r, &req); err != nil || req.Nom == "" || req.Code == "" {
				respondError(w, http.StatusBadRequest, "Nom and code are required")
				return
			}
			pole := &organisation.Pole{
				Nom:           req.Nom,
				Code:          req.Code,
				Description:   req.Description,
				ResponsableID: req.ResponsableID,
				EstActif:      req.EstActif == nil || *req.EstActif,
			}
			if err := s.repos.Organisation.UpsertPole(r.Context(), pole); err != nil {
				log.Error().Err(err).Msg("[Server PolesHandler] create pole")
				respondError(w, http.StatusInternalServerError, "Failed to create pole")
				return
			}
			respondJSON(w, http.StatusCreated, pole.Payload(s.responsable(r.Context(), pole.ResponsableID)))

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// PoleDetailHandler serves GET/PATCH/DELETE on a single pole.
func (s *Server) PoleDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid pole id")
			return
		}
		pole, err := s.repos.Organisation.GetPole(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusNotFound, "Pole not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			respondJSON(w, http.StatusOK, pole.Payload(s.responsable(r.Context(), pole.ResponsableID)))

		case http.MethodPatch:
			var req poleRequest
			if err := decodeJSON(r, &req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.Nom != "" {
				pole.Nom = req.Nom
			}
			if req.Code != "" {
				pole.Code = req.Code
			}
			if req.Description != "" {
				pole.Description = req.Description
			}
			if req.ResponsableID != nil {
				pole.ResponsableID = req.ResponsableID
			}
			if req.EstActif != nil {
				pole.EstActif = *req.EstActif
			}
			if err := s.repos.Organisation.UpsertPole(r.Context(), pole); err != nil {
				log.Error().Err(err).Int64("pole_id", id).Msg("[Server PoleDetailHandler] update pole")
				respondError(w, http.StatusInternalServerError, "Failed to update pole")
				return
			}
			respondJSON(w, http.StatusOK, pole.Payload(s.responsable(r.Context(), pole.ResponsableID)))

		case http.MethodDelete:
			if err := s.repos.Organisation.DeletePole(r.Context(), id); err != nil {
				if apperrors.Is(err, apperrors.ErrNotFound) {
					respondError(w, http.StatusNotFound, "Pole not found")
					return
				}
				log.Error().Err(err).Int64("pole_id", id).Msg("[Server PoleDetailHandler] delete pole")
				respondError(w, http.StatusInternalServerError, "Failed to delete pole")
				return
			}
			respondJSON(w, http.StatusNoContent, nil)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

type serviceRequest struct {
	Nom           string `json:"nom"`
	Description   string `json:"description"`
	PoleID        int64  `json:"pole"`
	ResponsableID *int64 `json:"responsable"`
	EstActif      *bool  `json:"est_actif"`
}

// ServicesHandler serves the service collection. GET supports filtering by
// pole with ?pole=<id>.
func (s *Server) ServicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			poleID, _ := strconv.ParseInt(r.URL.Query().Get("pole"), 10, 64)
			services, err := s.repos.Organisation.ListServices(r.Context(), poleID)
			if err != nil {
				log.Error().Err(err).Msg("[Server ServicesHandler] list services")
				respondError(w, http.StatusInternalServerError, "Failed to list services")
				return
			}
			results := make([]organisation.ServicePayload, 0, len(services))
			for _, service := range services {
				results = append(results, service.Payload(s.responsable(r.Context(), service.ResponsableID)))
			}
			respondJSON(w, http.StatusOK, results)

		case http.MethodPost:
			var req serviceRequest
			if err := decodeJSON(r, &req); err != nil || req.Nom == "" || req.PoleID == 0 {
				respondError(w, http.StatusBadRequest, "Nom and pole are required")
				return
			}
			if _, err := s.repos.Organisation.GetPole(r.Context(), req.PoleID); err != nil {
				respondError(w, http.StatusBadRequest, "Unknown pole")
				return
			}
			service := &organisation.Service{
				Nom:           req.Nom,
				Description:   req.Description,
				PoleID:        req.PoleID,
				ResponsableID: req.ResponsableID,
				EstActif:      req.EstActif == nil || *req.EstActif,
			}
			if err := s.repos.Organisation.UpsertService(r.Context(), service); err != nil {
				log.Error().Err(err).Msg("[Server ServicesHandler] create service")
				respondError(w, http.StatusInternalServerError, "Failed to create service")
				return
			}
			respondJSON(w, http.StatusCreated, service.Payload(s.responsable(r.Context(), service.ResponsableID)))

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// ServiceDetailHandler serves GET/PATCH/DELETE on a single service.
func (s *Server) ServiceDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid service id")
			return
		}
		service, err := s.repos.Organisation.GetService(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusNotFound, "Service not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			respondJSON(w, http.StatusOK, service.Payload(s.responsable(r.Context(), service.ResponsableID)))

		case http.MethodPatch:
			var req serviceRequest
			if err := decodeJSON(r, &req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.Nom != "" {
				service.Nom = req.Nom
			}
			if req.Description != "" {
				service.Description = req.Description
			}
			if req.PoleID != 0 {
				if _, err := s.repos.Organisation.GetPole(r.Context(), req.PoleID); err != nil {
					respondError(w, http.StatusBadRequest, "Unknown pole")
					return
				}
				service.PoleID = req.PoleID
			}
			if req.ResponsableID != nil {
				service.ResponsableID = req.ResponsableID
			}
			if req.EstActif != nil {
				service.EstActif = *req.EstActif
			}
			if err := s.repos.Organisation.UpsertService(r.Context(), service); err != nil {
				log.Error().Err(err).Int64("service_id", id).Msg("[Server ServiceDetailHandler] update service")
				respondError(w, http.StatusInternalServerError, "Failed to update service")
				return
			}
			respondJSON(w, http.StatusOK, service.Payload(s.responsable(r.Context(), service.ResponsableID)))

		case http.MethodDelete:
			if err := s.repos.Organisation.DeleteService(r.Context(), id); err != nil {
				log.Error().Err(err).Int64("service_id", id).Msg("[Server ServiceDetailHandler] delete service")
				respondError(w, http.StatusInternalServerError, "Failed to delete service")
				return
			}
			respondJSON(w, http.StatusNoContent, nil)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

type teamRequest struct {
	Nom           string `json:"nom"`
	Description   string `json:"description"`
	ServiceID     int64  `json:"service"`
	ResponsableID *int64 `json:"responsable"`
	EstActif      *bool  `json:"est_actif"`
}

// TeamsHandler serves the team collection. GET supports filtering by
// service with ?service=<id>.
func (s *Server) TeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			serviceID, _ := strconv.ParseInt(r.URL.Query().Get("service"), 10, 64)
			teams, err := s.repos.Organisation.ListTeams(r.Context(), serviceID)
			if err != nil {
				log.Error().Err(err).Msg("[Server TeamsHandler] list teams")
				respondError(w, http.StatusInternalServerError, "Failed to list teams")
				return
			}
			results := make([]organisation.TeamPayload, 0, len(teams))
			for _, team := range teams {
				results = append(results, team.Payload(s.responsable(r.Context(), team.ResponsableID)))
			}
			respondJSON(w, http.StatusOK, results)

		case http.MethodPost:
			var req teamRequest
			if err := decodeJSON(r, &req); err != nil || req.Nom == "" || req.ServiceID == 0 {
				respondError(w, http.StatusBadRequest, "Nom and service are required")
				return
			}
			if _, err := s.repos.Organisation.GetService(r.Context(), req.ServiceID); err != nil {
				respondError(w, http.StatusBadRequest, "Unknown service")
				return
			}
			team := &organisation.Team{
				Nom:           req.Nom,
				Description:   req.Description,
				ServiceID:     req.ServiceID,
				ResponsableID: req.ResponsableID,
				EstActif:      req.EstActif == nil || *req.EstActif,
			}
			if err := s.repos.Organisation.UpsertTeam(r.Context(), team); err != nil {
				log.Error().Err(err).Msg("[Server TeamsHandler] create team")
				respondError(w, http.StatusInternalServerError, "Failed to create team")
				return
			}
			respondJSON(w, http.StatusCreated, team.Payload(s.responsable(r.Context(), team.ResponsableID)))

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// TeamDetailHandler serves GET/PATCH/DELETE on a single team.
func (s *Server) TeamDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid team id")
			return
		}
		team, err := s.repos.Organisation.GetTeam(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusNotFound, "Team not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			respondJSON(w, http.StatusOK, team.Payload(s.responsable(r.Context(), team.ResponsableID)))

		case http.MethodPatch:
			var req teamRequest
			if err := decodeJSON(r, &req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.Nom != "" {
				team.Nom = req.Nom
			}
			if req.Description != "" {
				team.Description = req.Description
			}
			if req.ServiceID != 0 {
				if _, err := s.repos.Organisation.GetService(r.Context(), req.ServiceID); err != nil {
					respondError(w, http.StatusBadRequest, "Unknown service")
					return
				}
				team.ServiceID = req.ServiceID
			}
			if req.ResponsableID != nil {
				team.ResponsableID = req.ResponsableID
			}
			if req.EstActif != nil {
				team.EstActif = *req.EstActif
			}
			if err := s.repos.Organisation.UpsertTeam(r.Context(), team); err != nil {
				log.Error().Err(err).Int64("team_id", id).Msg("[Server TeamDetailHandler] update team")
				respondError(w, http.StatusInternalServerError, "Failed to update team")
				return
			}
			respondJSON(w, http.StatusOK, team.Payload(s.responsable(r.Context(), team.ResponsableID)))

		case http.MethodDelete:
			if err := s.repos.Organisation.DeleteTeam(r.Context(), id); err != nil {
				log.Error().Err(err).Int64("team_id", id).Msg("[Server TeamDetailHandler] delete team")
				respondError(w, http.StatusInternalServerError, "Failed to delete team")
				return
			}
			respondJSON(w, http.StatusNoContent, nil)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}
