package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// SendDirectMessageInput carries the data needed to post into a conversation.
type SendDirectMessageInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
}

// SendDirectMessageUseCase validates and persists a direct message. The
// recipient's DM privacy is re-read on every send; a recipient who switched
// to "none" after the conversation was opened stops receiving immediately.
type SendDirectMessageUseCase struct {
	Chats chatrepo.ChatRepository
	Users userrepo.UserRepository
}

func NewSendDirectMessageUseCase(chats chatrepo.ChatRepository, users userrepo.UserRepository) *SendDirectMessageUseCase {
	return &SendDirectMessageUseCase{Chats: chats, Users: users}
}

func (uc *SendDirectMessageUseCase) Execute(ctx context.Context, in SendDirectMessageInput) (*chat.DirectMessage, error) {
	content, err := chat.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Chats.FindConversation(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	recipientID, ok := conv.OtherParticipant(in.SenderID)
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	recipient, err := uc.Users.FindByID(ctx, recipientID)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return nil, chat.ErrDMNotAllowed
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !recipient.CanReceiveDMFrom(in.SenderID) {
		return nil, chat.ErrDMNotAllowed
	}

	msg, err := uc.Chats.CreateDirectMessage(ctx, in.ConversationID, in.SenderID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
