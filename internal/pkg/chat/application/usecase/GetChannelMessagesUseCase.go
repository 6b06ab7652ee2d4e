package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// GetChannelMessagesInput selects a page of channel history.
type GetChannelMessagesInput struct {
	ServerID  uuid.UUID
	ChannelID uuid.UUID
	UserID    uuid.UUID
	Limit     int
	Offset    int
}

// GetChannelMessagesUseCase returns channel history for users holding the
// read capability. Tombstoned messages are included; their content is
// redacted at serialization, not filtered out, so counts stay stable.
type GetChannelMessagesUseCase struct {
	Access *ResolveChannelAccessUseCase
	Chats  chatrepo.ChatRepository
}

func NewGetChannelMessagesUseCase(access *ResolveChannelAccessUseCase, chats chatrepo.ChatRepository) *GetChannelMessagesUseCase {
	return &GetChannelMessagesUseCase{Access: access, Chats: chats}
}

func (uc *GetChannelMessagesUseCase) Execute(ctx context.Context, in GetChannelMessagesInput) ([]chat.Message, error) {
	access, err := uc.Access.Execute(ctx, in.ServerID, in.ChannelID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Permissions.CanRead {
		return nil, chat.ErrReadForbidden
	}

	msgs, err := uc.Chats.ListMessages(ctx, in.ChannelID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
