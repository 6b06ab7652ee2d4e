package servers

import "testing"

// TestRoleOrdering verifies the strict role hierarchy member < moderator <
// admin < owner.
func TestRoleOrdering(t *testing.T) {
	ordered := []Role{RoleMember, RoleModerator, RoleAdmin, RoleOwner}
	for i, lower := range ordered {
		for j, higher := range ordered {
			got := higher.AtLeast(lower)
			want := j >= i
			if got != want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", higher, lower, got, want)
			}
		}
	}
}

func TestRolePrivileged(t *testing.T) {
	cases := map[Role]bool{
		RoleMember:    false,
		RoleModerator: true,
		RoleAdmin:     true,
		RoleOwner:     true,
	}
	for role, want := range cases {
		if got := role.Privileged(); got != want {
			t.Errorf("%s.Privileged() = %v, want %v", role, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, name := range []string{"member", "moderator", "admin", "owner"} {
		role, err := ParseRole(name)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", name, err)
		}
		if role.String() != name {
			t.Errorf("ParseRole(%q).String() = %q", name, role.String())
		}
	}
}

// TestParseRoleUnknown verifies unknown role strings fail loudly instead of
// silently ranking as member.
func TestParseRoleUnknown(t *testing.T) {
	for _, name := range []string{"", "moderators", "Owner", "superuser"} {
		if _, err := ParseRole(name); err == nil {
			t.Errorf("ParseRole(%q) succeeded, want error", name)
		}
	}
}
