package devbackend

import (
	"github.com/jrsteele09/go-assoc-admin/authapi"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+authapi.RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+authapi.RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterRouteFunc("GET "+authapi.RouteProfile, ChainMiddleware(s.GetProfileHandler(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterRouteFunc("PUT "+authapi.RouteProfile, ChainMiddleware(s.UpdateProfileHandler(), s.APIMiddleware(s.RequireAuth)...))
	s.RegisterRouteFunc("PUT "+authapi.RoutePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(s.RequireAuth)...))
}
