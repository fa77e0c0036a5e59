package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/mpigajesse/yoozak-backoffice/clients"
	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	"github.com/mpigajesse/yoozak-backoffice/organisation"
	"github.com/mpigajesse/yoozak-backoffice/token"
	"github.com/mpigajesse/yoozak-backoffice/token/refresh"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

// Repos bundles the repositories the server depends on.
type Repos struct {
	Users         users.UserRepo
	Clients       clients.Repo
	Organisation  organisation.Repo
	RefreshTokens refresh.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	repos  Repos

	accessTokens  *token.Manager
	refreshTokens *refresh.Manager
}

func New(config config.Config, repos Repos) (*Server, error) {
	s := &Server{
		mux:           http.NewServeMux(),
		config:        config,
		repos:         repos,
		accessTokens:  token.NewManager(config),
		refreshTokens: refresh.NewManager(repos.RefreshTokens, config),
	}
	s.env = config.GetEnv()

	// Bootstrap: ensure a superuser account exists
	ctx := context.Background()
	if err := s.InitialiseSystem(ctx, config); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
