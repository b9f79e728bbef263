// Package guard decides whether a protected view renders, shows a loading
// placeholder or redirects, from the session state and the route's permission.
package guard

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-assoc-admin/authz"
	"github.com/jrsteele09/go-assoc-admin/session"
)

const (
	DefaultLoginPath     = "/login"
	DefaultForbiddenPath = "/dashboard"
)

// Outcome of a guard evaluation.
type Outcome int

const (
	RenderLoading Outcome = iota
	RedirectLogin
	RenderContent
	RedirectForbidden
)

var outcomeNames = map[Outcome]string{
	RenderLoading:     "loading",
	RedirectLogin:     "redirect-login",
	RenderContent:     "content",
	RedirectForbidden: "redirect-forbidden",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Decision is the result of evaluating a route. RedirectTo is set for the two
// redirect outcomes.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Route describes a protected view. A zero Permission means any live session
// may see it.
type Route struct {
	Path       string
	Permission authz.Permission
}

// NewRoute builds a route from a configured permission string; "" means none.
func NewRoute(path, permission string) (Route, error) {
	p, err := authz.ParsePermission(permission)
	if err != nil {
		return Route{}, err
	}
	return Route{Path: path, Permission: p}, nil
}

// SessionSource is the part of the session manager the guard reads.
type SessionSource interface {
	State() session.State
	Session() *session.Session
}

// expiryChecker is implemented by *session.Manager; Protect uses it to tear
// down a session whose token ran out before deciding.
type expiryChecker interface {
	CheckExpiry(ctx context.Context) session.State
}

// Guard evaluates routes against one session source.
type Guard struct {
	source        SessionSource
	policy        authz.Policy
	loginPath     string
	forbiddenPath string
	loading       http.Handler
}

// Option configures a Guard.
type Option func(*Guard)

func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithForbiddenPath sets where denied sessions are sent, the dashboard by default.
func WithForbiddenPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.forbiddenPath = path
		}
	}
}

// WithPolicy replaces the default authorization policy.
func WithPolicy(policy authz.Policy) Option {
	return func(g *Guard) {
		g.policy = policy
	}
}

// WithLoadingHandler replaces the placeholder served while initializing.
func WithLoadingHandler(handler http.Handler) Option {
	return func(g *Guard) {
		if handler != nil {
			g.loading = handler
		}
	}
}

func New(source SessionSource, options ...Option) *Guard {
	g := &Guard{
		source:        source,
		policy:        authz.DefaultPolicy(),
		loginPath:     DefaultLoginPath,
		forbiddenPath: DefaultForbiddenPath,
		loading:       http.HandlerFunc(loadingPlaceholder),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Evaluate decides what to do with route. It never redirects to login while
// the session is still initializing.
func (g *Guard) Evaluate(route Route) Decision {
	switch g.source.State() {
	case session.Initializing:
		return Decision{Outcome: RenderLoading}
	case session.Authenticated:
		sess := g.source.Session()
		if sess == nil {
			// Ended between the two reads
			return Decision{Outcome: RedirectLogin, RedirectTo: g.loginPath}
		}
		if g.policy.IsPermitted(sess, route.Permission) {
			return Decision{Outcome: RenderContent}
		}
		return Decision{Outcome: RedirectForbidden, RedirectTo: g.forbiddenPath}
	default:
		return Decision{Outcome: RedirectLogin, RedirectTo: g.loginPath}
	}
}

func loadingPlaceholder(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="loading" aria-busy="true">Loading…</div>`))
}
