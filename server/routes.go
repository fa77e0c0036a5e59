package server

func (s *Server) initRoutes() {
	// Auth routes (no bearer token required)
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTokenVerify, ChainMiddleware(s.VerifyTokenHandler(), s.APIMiddleware()...))

	// Profile routes (any authenticated account)
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("PATCH "+RouteProfileUpdate, ChainMiddleware(s.ProfileUpdateHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteCurrentUser, ChainMiddleware(s.CurrentUserHandler(), s.APIMiddleware(s.RequireAuth())...))

	// User admin routes (staff only, deletion superuser only)
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.UsersListHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))
	s.RegisterRouteHandler("POST "+RouteUserCreate, ChainMiddleware(s.UserCreateHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))
	s.RegisterRouteHandler("DELETE "+RouteUserDelete, ChainMiddleware(s.UserDeleteHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireSuperuser())...))
	s.RegisterRouteHandler("GET "+RouteUserDetail, ChainMiddleware(s.UserDetailHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))
	s.RegisterRouteHandler("PATCH "+RouteUserDetail, ChainMiddleware(s.UserDetailHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))
	s.RegisterRouteHandler("DELETE "+RouteUserDetail, ChainMiddleware(s.UserDetailHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireStaff())...))

	// Organisation routes (staff only)
	s.registerOrganisationRoutes()
}

func (s *Server) registerOrganisationRoutes() {
	staff := s.APIMiddleware(s.RequireAuth(), s.RequireStaff())

	s.RegisterRouteHandler("GET "+RoutePoles, ChainMiddleware(s.PolesHandler(), staff...))
	s.RegisterRouteHandler("POST "+RoutePoles, ChainMiddleware(s.PolesHandler(), staff...))
	s.RegisterRouteHandler("GET "+RoutePoleDetail, ChainMiddleware(s.PoleDetailHandler(), staff...))
	s.RegisterRouteHandler("PATCH "+RoutePoleDetail, ChainMiddleware(s.PoleDetailHandler(), staff...))
	s.RegisterRouteHandler("DELETE "+RoutePoleDetail, ChainMiddleware(s.PoleDetailHandler(), staff...))

	s.RegisterRouteHandler("GET "+RouteServices, ChainMiddleware(s.ServicesHandler(), staff...))
	s.RegisterRouteHandler("POST "+RouteServices, ChainMiddleware(s.ServicesHandler(), staff...))
	s.RegisterRouteHandler("GET "+RouteServiceDetail, ChainMiddleware(s.ServiceDetailHandler(), staff...))
	s.RegisterRouteHandler("PATCH "+RouteServiceDetail, ChainMiddleware(s.ServiceDetailHandler(), staff...))
	s.RegisterRouteHandler("DELETE "+RouteServiceDetail, ChainMiddleware(s.ServiceDetailHandler(), staff...))

	s.RegisterRouteHandler("GET "+RouteTeams, ChainMiddleware(s.TeamsHandler(), staff...))
	s.RegisterRouteHandler("POST "+RouteTeams, ChainMiddleware(s.TeamsHandler(), staff...))
	s.RegisterRouteHandler("GET "+RouteTeamDetail, ChainMiddleware(s.TeamDetailHandler(), staff...))
	s.RegisterRouteHandler("PATCH "+RouteTeamDetail, ChainMiddleware(s.TeamDetailHandler(), staff...))
	s.RegisterRouteHandler("DELETE "+RouteTeamDetail, ChainMiddleware(s.TeamDetailHandler(), staff...))
}
