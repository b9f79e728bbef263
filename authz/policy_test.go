package authz_test

import (
	"testing"

	"github.com/jrsteele09/go-assoc-admin/authz"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/stretchr/testify/require"
)

type subject struct {
	role users.RoleType
}

func (s *subject) GetRole() users.RoleType { return s.role }

func TestIsPermittedTotal(t *testing.T) {
	admin := &subject{role: users.RoleAdmin}
	subAdmin := &subject{role: users.RoleSubAdmin}
	plainUser := &subject{role: users.RoleUser}
	unknown := &subject{role: "auditor"}
	var typedNil *subject

	grants := map[authz.Permission]bool{}
	for _, p := range authz.SubAdminGrants() {
		grants[p] = true
	}
	require.Len(t, grants, 8)

	subjects := map[string]authz.Subject{
		"admin":     admin,
		"sub-admin": subAdmin,
		"user":      plainUser,
		"unknown":   unknown,
		"absent":    nil,
		"typed nil": typedNil,
	}

	for name, s := range subjects {
		require.True(t, authz.IsPermitted(s, authz.NoPermission), name)

		for _, p := range authz.Permissions() {
			got := authz.IsPermitted(s, p)
			switch name {
			case "admin":
				require.True(t, got, "%s %s", name, p)
			case "sub-admin":
				require.Equal(t, grants[p], got, "%s %s", name, p)
			default:
				require.False(t, got, "%s %s", name, p)
			}
		}
	}
}

func TestIsPermittedExamples(t *testing.T) {
	require.True(t, authz.IsPermittedString(&subject{role: users.RoleSubAdmin}, "vendors:write"))
	require.False(t, authz.IsPermittedString(&subject{role: users.RoleSubAdmin}, "associations:delete"))
	require.True(t, authz.IsPermittedString(&subject{role: users.RoleAdmin}, "anything:anything"))
	require.False(t, authz.IsPermittedString(nil, "vendors:read"))
	require.True(t, authz.IsPermittedString(nil, ""))
	require.False(t, authz.IsPermittedString(&subject{role: users.RoleSubAdmin}, "anything:anything"))
	require.False(t, authz.IsPermittedString(&subject{role: users.RoleUser}, "anything:anything"))
}

func TestSubAdminAllowList(t *testing.T) {
	require.ElementsMatch(t, []authz.Permission{
		authz.VendorsRead, authz.VendorsWrite,
		authz.EventsRead, authz.EventsWrite,
		authz.BODRead, authz.BODWrite,
		authz.MembersRead, authz.MembersWrite,
	}, authz.SubAdminGrants())

	sub := &subject{role: users.RoleSubAdmin}
	for _, p := range []authz.Permission{authz.VendorsDelete, authz.AssociationsRead, authz.AssociationsWrite, authz.MembersDelete} {
		require.False(t, authz.IsPermitted(sub, p), p.String())
	}
}

func TestCustomPolicy(t *testing.T) {
	policy := authz.NewPolicy([]authz.Permission{authz.AssociationsRead, authz.NoPermission, authz.Permission(200)})
	sub := &subject{role: users.RoleSubAdmin}

	require.True(t, policy.IsPermitted(sub, authz.AssociationsRead))
	require.False(t, policy.IsPermitted(sub, authz.VendorsRead))
	require.False(t, policy.IsPermitted(sub, authz.Permission(200)))
	require.True(t, policy.IsPermitted(&subject{role: users.RoleAdmin}, authz.VendorsRead))
}

func TestHasRole(t *testing.T) {
	require.True(t, authz.HasRole(&subject{role: users.RoleSubAdmin}, users.RoleSubAdmin))
	require.False(t, authz.HasRole(&subject{role: users.RoleSubAdmin}, users.RoleAdmin))
	require.False(t, authz.HasRole(nil, users.RoleAdmin))
	var typedNil *subject
	require.False(t, authz.HasRole(typedNil, users.RoleAdmin))
}

func TestParsePermission(t *testing.T) {
	for _, p := range authz.Permissions() {
		parsed, err := authz.ParsePermission(p.String())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}

	p, err := authz.ParsePermission(" Vendors:Write ")
	require.NoError(t, err)
	require.Equal(t, authz.VendorsWrite, p)

	p, err = authz.ParsePermission("")
	require.NoError(t, err)
	require.Equal(t, authz.NoPermission, p)

	_, err = authz.ParsePermission("vendors:*")
	require.Error(t, err)
	require.Equal(t, "Permission(99)", authz.Permission(99).String())
}
