package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
)

// ChannelGroup derives the broadcast group key for a channel. The server id
// is part of the key so equal channel ids in different servers never collide.
func ChannelGroup(serverID, channelID uuid.UUID) string {
	return fmt.Sprintf("chat_%s_%s", serverID, channelID)
}

// ChannelBinding authorizes a session against a (server, channel) pair and
// posts through the channel message pipeline.
type ChannelBinding struct {
	ServerID  uuid.UUID
	ChannelID uuid.UUID

	Access *usecase.ResolveChannelAccessUseCase
	Send   *usecase.SendChannelMessageUseCase
}

var _ Binding = (*ChannelBinding)(nil)

func (b *ChannelBinding) Kind() string {
	return TypeChatMessage
}

func (b *ChannelBinding) Describe() map[string]any {
	return map[string]any{
		"server_id":  b.ServerID.String(),
		"channel_id": b.ChannelID.String(),
	}
}

// Authorize requires server membership and the view capability on the
// channel; thresholds are evaluated against the member's current role.
func (b *ChannelBinding) Authorize(ctx context.Context, user *accounts.User) (*Grant, error) {
	access, err := b.Access.Execute(ctx, b.ServerID, b.ChannelID, user.ID)
	if err != nil {
		return nil, err
	}
	if !access.Permissions.CanView {
		return nil, chat.ErrViewForbidden
	}

	perms := access.Permissions
	return &Grant{
		User:  user,
		Group: ChannelGroup(b.ServerID, b.ChannelID),
		Resource: map[string]any{
			"server": map[string]any{
				"id":   access.Server.ID.String(),
				"name": access.Server.Name,
			},
			"channel": map[string]any{
				"id":   access.Channel.ID.String(),
				"name": access.Channel.Name,
			},
		},
		Membership: map[string]any{
			"role":      access.Membership.Role.String(),
			"joined_at": access.Membership.CreatedAt,
		},
		Permissions: &perms,
	}, nil
}

// Post persists through the send usecase, which re-resolves the author's
// current post permission, then wraps the stored record in the broadcast
// envelope every group member receives.
func (b *ChannelBinding) Post(ctx context.Context, user *accounts.User, content string) ([]byte, error) {
	msg, err := b.Send.Execute(ctx, usecase.SendChannelMessageInput{
		ServerID:  b.ServerID,
		ChannelID: b.ChannelID,
		AuthorID:  user.ID,
		Content:   content,
	})
	if err != nil {
		return nil, err
	}

	author := user.Summary()
	return ChatMessageEnvelope(msg.Payload(&author)), nil
}
