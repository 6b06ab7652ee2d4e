package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
	serverrepo "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/port"
)

// ListChannelsUseCase returns the server's channels visible to a member.
// Channels whose view threshold sits above the member's role are omitted
// entirely rather than shown as locked.
type ListChannelsUseCase struct {
	Servers serverrepo.ServerRepository
	Chats   chatrepo.ChatRepository
}

func NewListChannelsUseCase(srv serverrepo.ServerRepository, chats chatrepo.ChatRepository) *ListChannelsUseCase {
	return &ListChannelsUseCase{Servers: srv, Chats: chats}
}

func (uc *ListChannelsUseCase) Execute(ctx context.Context, serverID, userID uuid.UUID) ([]chat.Channel, error) {
	if _, err := uc.Servers.FindServer(ctx, serverID); err != nil {
		return nil, wrapLookup(err)
	}
	membership, err := uc.Servers.FindMembership(ctx, serverID, userID)
	if err != nil {
		return nil, wrapLookup(err)
	}

	channels, err := uc.Chats.ListChannels(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	visible := channels[:0]
	for _, c := range channels {
		if chat.Permissions(membership.Role, true, c.Thresholds).CanView {
			visible = append(visible, c)
		}
	}
	return visible, nil
}
