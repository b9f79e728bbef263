package guard

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-assoc-admin/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the *session.Session a protected handler runs under
const ContextKeySession ContextKey = "session"

// SessionFromContext returns the session Protect attached, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ContextKeySession).(*session.Session)
	return sess
}

// Protect is middleware that only lets next run for a live session permitted
// to see route. Other outcomes get the loading placeholder or a 303 redirect.
func (g *Guard) Protect(route Route, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if checker, ok := g.source.(expiryChecker); ok {
			checker.CheckExpiry(r.Context())
		}

		decision := g.Evaluate(route)
		switch decision.Outcome {
		case RenderContent:
			ctx := context.WithValue(r.Context(), ContextKeySession, g.source.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		case RenderLoading:
			g.loading.ServeHTTP(w, r)
		default:
			log.Debug().Str("path", r.URL.Path).Stringer("outcome", decision.Outcome).Str("to", decision.RedirectTo).Msg("route guard redirect")
			http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
		}
	})
}

// ProtectFunc is Protect for handler functions.
func (g *Guard) ProtectFunc(route Route, next http.HandlerFunc) http.HandlerFunc {
	return g.Protect(route, next).ServeHTTP
}
