package authz

import (
	"fmt"
	"strings"
)

// Permission is a closed set of "<resource>:<action>" grants. The zero value,
// NoPermission, means the route needs no particular grant.
type Permission uint8

const (
	NoPermission Permission = iota
	VendorsRead
	VendorsWrite
	VendorsDelete
	EventsRead
	EventsWrite
	EventsDelete
	BODRead
	BODWrite
	BODDelete
	MembersRead
	MembersWrite
	MembersDelete
	AssociationsRead
	AssociationsWrite
	AssociationsDelete

	permissionCount
)

var permissionNames = [permissionCount]string{
	NoPermission:       "",
	VendorsRead:        "vendors:read",
	VendorsWrite:       "vendors:write",
	VendorsDelete:      "vendors:delete",
	EventsRead:         "events:read",
	EventsWrite:        "events:write",
	EventsDelete:       "events:delete",
	BODRead:            "bod:read",
	BODWrite:           "bod:write",
	BODDelete:          "bod:delete",
	MembersRead:        "members:read",
	MembersWrite:       "members:write",
	MembersDelete:      "members:delete",
	AssociationsRead:   "associations:read",
	AssociationsWrite:  "associations:write",
	AssociationsDelete: "associations:delete",
}

func (p Permission) String() string {
	if p >= permissionCount {
		return fmt.Sprintf("Permission(%d)", uint8(p))
	}
	return permissionNames[p]
}

// Valid reports whether p is one of the declared permissions (NoPermission included).
func (p Permission) Valid() bool {
	return p < permissionCount
}

// ParsePermission maps "resource:action" onto the enumeration. An empty string
// parses to NoPermission.
func ParsePermission(s string) (Permission, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p := NoPermission; p < permissionCount; p++ {
		if permissionNames[p] == s {
			return p, nil
		}
	}
	return NoPermission, fmt.Errorf("unknown permission %q", s)
}

// Permissions lists every declared permission except NoPermission.
func Permissions() []Permission {
	all := make([]Permission, 0, permissionCount-1)
	for p := NoPermission + 1; p < permissionCount; p++ {
		all = append(all, p)
	}
	return all
}
