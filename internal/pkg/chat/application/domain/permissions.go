package chat

import (
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// Capabilities is the permission set a member holds on a channel.
type Capabilities struct {
	CanView bool `json:"can_view"`
	CanRead bool `json:"can_read"`
	CanPost bool `json:"can_post"`
}

// Permissions computes the capability set for a role against a channel's
// thresholds: each capability is granted when the role ranks at or above the
// matching threshold. member=false means no membership at all and yields no
// capabilities regardless of role.
//
// The function is pure and must be re-evaluated on every access decision;
// roles and thresholds can change between any two protocol messages.
func Permissions(role servers.Role, member bool, t Thresholds) Capabilities {
	if !member {
		return Capabilities{}
	}
	return Capabilities{
		CanView: role.AtLeast(t.MinView),
		CanRead: role.AtLeast(t.MinRead),
		CanPost: role.AtLeast(t.MinMessage),
	}
}
