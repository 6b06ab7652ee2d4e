package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput identifies a message and its replacement content.
type EditMessageInput struct {
	ServerID  uuid.UUID
	ChannelID uuid.UUID
	MessageID uuid.UUID
	UserID    uuid.UUID
	Content   string
}

// EditMessageUseCase rewrites a message's content. Allowed for the author,
// or for moderator/admin/owner moderating someone else's message.
type EditMessageUseCase struct {
	Access *ResolveChannelAccessUseCase
	Chats  chatrepo.ChatRepository
}

func NewEditMessageUseCase(access *ResolveChannelAccessUseCase, chats chatrepo.ChatRepository) *EditMessageUseCase {
	return &EditMessageUseCase{Access: access, Chats: chats}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	content, err := chat.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	access, err := uc.Access.Execute(ctx, in.ServerID, in.ChannelID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Permissions.CanRead {
		return nil, chat.ErrReadForbidden
	}

	msg, err := uc.Chats.GetMessage(ctx, in.ChannelID, in.MessageID)
	if err != nil {
		return nil, wrapMessageLookup(err)
	}
	if !msg.CanModify(in.UserID, access.Membership.Role) {
		return nil, chat.ErrNotAuthor
	}

	updated, err := uc.Chats.UpdateMessageContent(ctx, in.MessageID, content)
	if err != nil {
		return nil, wrapMessageLookup(err)
	}
	return updated, nil
}

func wrapMessageLookup(err error) error {
	if errors.Is(err, chat.ErrMessageNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
