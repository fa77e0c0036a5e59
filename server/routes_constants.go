package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin   = "/api/users/auth/login/"
	RouteAuthRefresh = "/api/users/auth/refresh/"
	RouteTokenVerify = "/api/token/verify/"

	// Profile Routes
	RouteProfile       = "/api/users/profile/"
	RouteProfileUpdate = "/api/users/profile/update/"
	RouteCurrentUser   = "/api/users/current/"

	// User Admin Routes
	RouteUsers      = "/api/users/"
	RouteUserCreate = "/api/users/create/"
	RouteUserDelete = "/api/users/delete/{id}/"
	RouteUserDetail = "/api/users/{id}/"

	// Organisation Routes
	RoutePoles         = "/api/poles/"
	RoutePoleDetail    = "/api/poles/{id}/"
	RouteServices      = "/api/services/"
	RouteServiceDetail = "/api/services/{id}/"
	RouteTeams         = "/api/teams/"
	RouteTeamDetail    = "/api/teams/{id}/"
)
