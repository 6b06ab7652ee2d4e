package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// GetDirectMessagesInput selects a page of conversation history.
type GetDirectMessagesInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	Limit          int
	Offset         int
}

// GetDirectMessagesUseCase returns conversation history for a participant
// and marks messages addressed to them as read.
type GetDirectMessagesUseCase struct {
	Chats chatrepo.ChatRepository
}

func NewGetDirectMessagesUseCase(chats chatrepo.ChatRepository) *GetDirectMessagesUseCase {
	return &GetDirectMessagesUseCase{Chats: chats}
}

func (uc *GetDirectMessagesUseCase) Execute(ctx context.Context, in GetDirectMessagesInput) ([]chat.DirectMessage, error) {
	conv, err := uc.Chats.FindConversation(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Chats.ListDirectMessages(ctx, in.ConversationID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Chats.MarkConversationRead(ctx, in.ConversationID, in.UserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
