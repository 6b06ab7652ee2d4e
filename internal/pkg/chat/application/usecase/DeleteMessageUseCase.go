package usecase

import (
	"context"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies a message to tombstone.
type DeleteMessageInput struct {
	ServerID  uuid.UUID
	ChannelID uuid.UUID
	MessageID uuid.UUID
	UserID    uuid.UUID
}

// DeleteMessageUseCase soft-deletes a message: the row stays, the tombstone
// flag is set, and readers see the redaction placeholder. Allowed for the
// author or a privileged role.
type DeleteMessageUseCase struct {
	Access *ResolveChannelAccessUseCase
	Chats  chatrepo.ChatRepository
}

func NewDeleteMessageUseCase(access *ResolveChannelAccessUseCase, chats chatrepo.ChatRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Access: access, Chats: chats}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	access, err := uc.Access.Execute(ctx, in.ServerID, in.ChannelID, in.UserID)
	if err != nil {
		return err
	}
	if !access.Permissions.CanRead {
		return chat.ErrReadForbidden
	}

	msg, err := uc.Chats.GetMessage(ctx, in.ChannelID, in.MessageID)
	if err != nil {
		return wrapMessageLookup(err)
	}
	if !msg.CanModify(in.UserID, access.Membership.Role) {
		return chat.ErrNotAuthor
	}

	if err := uc.Chats.SoftDeleteMessage(ctx, in.MessageID); err != nil {
		return wrapMessageLookup(err)
	}
	return nil
}
