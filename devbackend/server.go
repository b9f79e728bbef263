// Package devbackend is a local stand-in for the association backend's auth
// endpoints. It issues real HS256 bearer tokens so the console can be run and
// tested end to end without the production service.
package devbackend

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-assoc-admin/token"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config is what the dev backend reads from configuration.
type Config interface {
	GetEnv() string
	GetSigningSecret() string
	GetTokenTTL() time.Duration
	GetSeedPassword() string
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	users       users.UserRepo
	issuer      *token.Issuer
	revocations token.RevocationList
}

// Option configures a Server.
type Option func(*Server)

// WithRevocationList shares logouts through list instead of process memory.
func WithRevocationList(list token.RevocationList) Option {
	return func(s *Server) {
		s.revocations = list
	}
}

// New builds the server and seeds the repo with the dev accounts.
func New(config Config, repo users.UserRepo, options ...Option) (*Server, error) {
	if config == nil {
		return nil, errors.New("[devbackend.New] config is required")
	}
	if repo == nil {
		return nil, errors.New("[devbackend.New] user repo is required")
	}

	s := &Server{
		env:   config.GetEnv(),
		mux:   http.NewServeMux(),
		users: repo,
	}
	for _, opt := range options {
		opt(s)
	}
	s.issuer = token.NewIssuer(config.GetSigningSecret(), config.GetTokenTTL(), token.WithRevocationList(s.revocations))

	if err := SeedUsers(repo, config.GetSeedPassword()); err != nil {
		return nil, errors.Wrap(err, "[devbackend.New] failed to seed users")
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Issuer is the token issuer the server signs with.
func (s *Server) Issuer() *token.Issuer {
	return s.issuer
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
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
