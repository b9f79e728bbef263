// Package session owns the console's single active user context: the state
// machine between logged out and logged in, and the token and credential that
// go with it.
package session

import (
	"github.com/jrsteele09/go-assoc-admin/token"
	"github.com/jrsteele09/go-assoc-admin/users"
)

// State of the session manager.
type State int

const (
	Initializing State = iota
	Anonymous
	Authenticated
	Expired
)

var stateNames = map[State]string{
	Initializing:  "initializing",
	Anonymous:     "anonymous",
	Authenticated: "authenticated",
	Expired:       "expired",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// LoggedOut is true for every settled state without a live session.
func (s State) LoggedOut() bool {
	return s == Anonymous || s == Expired
}

// Session is the in-memory view of the logged in user, derived from the token.
type Session struct {
	Role        users.RoleType
	SubjectID   string
	DisplayName string
	Claims      token.Claims
}

// GetRole lets a *Session be used as an authz.Subject. A nil session has no role.
func (s *Session) GetRole() users.RoleType {
	if s == nil {
		return ""
	}
	return s.Role
}

func newSession(claims *token.Claims) *Session {
	return &Session{
		Role:        claims.Role,
		SubjectID:   claims.Subject,
		DisplayName: claims.Name,
		Claims:      *claims,
	}
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Claims.Raw != nil {
		c.Claims.Raw = make(map[string]any, len(s.Claims.Raw))
		for k, v := range s.Claims.Raw {
			c.Claims.Raw[k] = v
		}
	}
	return &c
}
