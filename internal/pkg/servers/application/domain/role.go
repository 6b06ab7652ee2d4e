package servers

import "fmt"

// Role is the membership role within a server. Roles are strictly ordered:
// member < moderator < admin < owner. Using a typed enum with explicit
// parsing means an unknown role string fails loudly instead of silently
// ranking as member.
type Role int8

const (
	RoleMember Role = iota
	RoleModerator
	RoleAdmin
	RoleOwner
)

var roleNames = [...]string{"member", "moderator", "admin", "owner"}

func (r Role) String() string {
	if r < RoleMember || r > RoleOwner {
		return fmt.Sprintf("role(%d)", int8(r))
	}
	return roleNames[r]
}

// Rank returns the comparable level of the role: member=0 up to owner=3.
func (r Role) Rank() int {
	return int(r)
}

// AtLeast reports whether r ranks at or above other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// Privileged reports whether the role may moderate content authored by
// others: owner, admin and moderator qualify.
func (r Role) Privileged() bool {
	return r.AtLeast(RoleModerator)
}

// ParseRole maps a stored role string to its Role.
func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), nil
		}
	}
	return RoleMember, fmt.Errorf("servers: unknown role %q", s)
}
