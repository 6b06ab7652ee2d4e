package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
	serverrepo "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/port"
)

// ChannelAccess bundles everything resolved for a (server, channel, user)
// triple: the rows themselves plus the capability set computed from the
// membership role and the channel thresholds.
type ChannelAccess struct {
	Server      *servers.Server
	Membership  *servers.Membership
	Channel     *chat.Channel
	Permissions chat.Capabilities
}

// ResolveChannelAccessUseCase resolves a user's access to a channel in the
// fixed order server -> membership -> channel -> permissions, surfacing the
// first failure as its typed domain error. Callers enforce whichever
// capability their operation needs; permissions are computed fresh on every
// call and must not be cached across requests.
type ResolveChannelAccessUseCase struct {
	Servers serverrepo.ServerRepository
	Chats   chatrepo.ChatRepository
}

func NewResolveChannelAccessUseCase(srv serverrepo.ServerRepository, chats chatrepo.ChatRepository) *ResolveChannelAccessUseCase {
	return &ResolveChannelAccessUseCase{Servers: srv, Chats: chats}
}

func (uc *ResolveChannelAccessUseCase) Execute(ctx context.Context, serverID, channelID, userID uuid.UUID) (*ChannelAccess, error) {
	server, err := uc.Servers.FindServer(ctx, serverID)
	if err != nil {
		return nil, wrapLookup(err)
	}

	membership, err := uc.Servers.FindMembership(ctx, serverID, userID)
	if err != nil {
		return nil, wrapLookup(err)
	}

	channel, err := uc.Chats.FindChannel(ctx, serverID, channelID)
	if err != nil {
		return nil, wrapLookup(err)
	}

	return &ChannelAccess{
		Server:      server,
		Membership:  membership,
		Channel:     channel,
		Permissions: chat.Permissions(membership.Role, true, channel.Thresholds),
	}, nil
}

// wrapLookup keeps domain errors intact and tags everything else as a
// persistence failure.
func wrapLookup(err error) error {
	for _, known := range []error{servers.ErrServerNotFound, servers.ErrNotAMember, chat.ErrChannelNotFound} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
