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

// ManageChannelUseCase covers channel administration: create, reconfigure,
// delete. All three require the admin role or above on the owning server.
type ManageChannelUseCase struct {
	Servers serverrepo.ServerRepository
	Chats   chatrepo.ChatRepository
}

func NewManageChannelUseCase(srv serverrepo.ServerRepository, chats chatrepo.ChatRepository) *ManageChannelUseCase {
	return &ManageChannelUseCase{Servers: srv, Chats: chats}
}

// ErrChannelAdminRequired is returned when a member below admin attempts
// channel administration.
var ErrChannelAdminRequired = errors.New("usecase: channel administration requires the admin role")

func (uc *ManageChannelUseCase) requireAdmin(ctx context.Context, serverID, userID uuid.UUID) error {
	if _, err := uc.Servers.FindServer(ctx, serverID); err != nil {
		return wrapLookup(err)
	}
	membership, err := uc.Servers.FindMembership(ctx, serverID, userID)
	if err != nil {
		return wrapLookup(err)
	}
	if !membership.Role.AtLeast(servers.RoleAdmin) {
		return ErrChannelAdminRequired
	}
	return nil
}

// Create adds a channel with default member thresholds unless overridden.
func (uc *ManageChannelUseCase) Create(ctx context.Context, serverID, userID uuid.UUID, c chat.Channel) (*chat.Channel, error) {
	if err := uc.requireAdmin(ctx, serverID, userID); err != nil {
		return nil, err
	}
	c.ServerID = serverID
	c.CreatedBy = &userID
	created, err := uc.Chats.CreateChannel(ctx, c)
	if err != nil {
		if errors.Is(err, chat.ErrDuplicateChannel) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return created, nil
}

// Update rewrites a channel's name, description and role thresholds.
func (uc *ManageChannelUseCase) Update(ctx context.Context, serverID, userID uuid.UUID, c chat.Channel) (*chat.Channel, error) {
	if err := uc.requireAdmin(ctx, serverID, userID); err != nil {
		return nil, err
	}
	c.ServerID = serverID
	updated, err := uc.Chats.UpdateChannel(ctx, c)
	if err != nil {
		if errors.Is(err, chat.ErrChannelNotFound) || errors.Is(err, chat.ErrDuplicateChannel) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}

// Delete removes a channel and, via cascade, its messages.
func (uc *ManageChannelUseCase) Delete(ctx context.Context, serverID, channelID, userID uuid.UUID) error {
	if err := uc.requireAdmin(ctx, serverID, userID); err != nil {
		return err
	}
	if err := uc.Chats.DeleteChannel(ctx, serverID, channelID); err != nil {
		if errors.Is(err, chat.ErrChannelNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
