// Package authz decides whether a session's role grants a permission. Every
// function here is pure: no I/O, no clock, no shared state.
package authz

import (
	"github.com/jrsteele09/go-assoc-admin/users"
)

// Subject is anything that carries a role, typically a *session.Session.
type Subject interface {
	GetRole() users.RoleType
}

// Policy maps roles onto permissions. Admin is always allowed; sub-admin gets
// exactly the grants in its allow-list; every other role is denied.
type Policy struct {
	subAdmin map[Permission]struct{}
}

var subAdminGrants = []Permission{
	VendorsRead, VendorsWrite,
	EventsRead, EventsWrite,
	BODRead, BODWrite,
	MembersRead, MembersWrite,
}

var defaultPolicy = NewPolicy(subAdminGrants)

// SubAdminGrants returns a copy of the compiled-in sub-admin allow-list.
func SubAdminGrants() []Permission {
	return append([]Permission(nil), subAdminGrants...)
}

// NewPolicy builds a policy with the given sub-admin allow-list.
func NewPolicy(subAdminGrants []Permission) Policy {
	grants := make(map[Permission]struct{}, len(subAdminGrants))
	for _, p := range subAdminGrants {
		if p != NoPermission && p.Valid() {
			grants[p] = struct{}{}
		}
	}
	return Policy{subAdmin: grants}
}

// DefaultPolicy is the policy the console ships with.
func DefaultPolicy() Policy {
	return defaultPolicy
}

// IsPermitted reports whether subject may use something guarded by permission.
func (p Policy) IsPermitted(subject Subject, permission Permission) bool {
	if permission == NoPermission {
		return true
	}
	if isNil(subject) {
		return false
	}
	switch subject.GetRole() {
	case users.RoleAdmin:
		return true
	case users.RoleSubAdmin:
		_, ok := p.subAdmin[permission]
		return ok
	default:
		return false
	}
}

// IsPermittedString is IsPermitted for permissions configured as strings. An
// empty string is "no permission"; a string outside the enumeration is only
// granted to admins.
func (p Policy) IsPermittedString(subject Subject, permission string) bool {
	parsed, err := ParsePermission(permission)
	if err == nil {
		return p.IsPermitted(subject, parsed)
	}
	return !isNil(subject) && subject.GetRole() == users.RoleAdmin
}

// IsPermitted checks permission against the default policy.
func IsPermitted(subject Subject, permission Permission) bool {
	return defaultPolicy.IsPermitted(subject, permission)
}

// IsPermittedString checks a string permission against the default policy.
func IsPermittedString(subject Subject, permission string) bool {
	return defaultPolicy.IsPermittedString(subject, permission)
}

// HasRole is an exact match on the subject's role; false without a subject.
func HasRole(subject Subject, role users.RoleType) bool {
	if isNil(subject) {
		return false
	}
	return subject.GetRole() == role
}
