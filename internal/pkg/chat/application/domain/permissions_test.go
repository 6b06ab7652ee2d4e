package chat

import (
	"testing"

	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// TestPermissionsMatrix walks every role against every threshold for each
// capability independently.
func TestPermissionsMatrix(t *testing.T) {
	roles := []servers.Role{servers.RoleMember, servers.RoleModerator, servers.RoleAdmin, servers.RoleOwner}

	for _, role := range roles {
		for _, threshold := range roles {
			want := role.AtLeast(threshold)

			caps := Permissions(role, true, Thresholds{MinView: threshold})
			if caps.CanView != want {
				t.Errorf("Permissions(%s, min_view=%s).CanView = %v, want %v", role, threshold, caps.CanView, want)
			}
			caps = Permissions(role, true, Thresholds{MinRead: threshold})
			if caps.CanRead != want {
				t.Errorf("Permissions(%s, min_read=%s).CanRead = %v, want %v", role, threshold, caps.CanRead, want)
			}
			caps = Permissions(role, true, Thresholds{MinMessage: threshold})
			if caps.CanPost != want {
				t.Errorf("Permissions(%s, min_message=%s).CanPost = %v, want %v", role, threshold, caps.CanPost, want)
			}
		}
	}
}

// TestPermissionsNonMember verifies a non-member gets nothing regardless of
// role and thresholds.
func TestPermissionsNonMember(t *testing.T) {
	caps := Permissions(servers.RoleOwner, false, Thresholds{})
	if caps.CanView || caps.CanRead || caps.CanPost {
		t.Errorf("non-member got capabilities: %+v", caps)
	}
}

// TestPermissionsIndependentCapabilities verifies one raised threshold does
// not drag the other capabilities down.
func TestPermissionsIndependentCapabilities(t *testing.T) {
	caps := Permissions(servers.RoleMember, true, Thresholds{
		MinView:    servers.RoleMember,
		MinRead:    servers.RoleMember,
		MinMessage: servers.RoleAdmin,
	})
	if !caps.CanView || !caps.CanRead {
		t.Errorf("raising min_message lost view/read: %+v", caps)
	}
	if caps.CanPost {
		t.Errorf("member can post past an admin threshold: %+v", caps)
	}
}
