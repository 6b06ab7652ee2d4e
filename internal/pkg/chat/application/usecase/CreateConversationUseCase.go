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

// CreateConversationUseCase opens (or returns) the private conversation
// between two users. The recipient's DM privacy is validated before any row
// is created; a second call for the same pair returns the existing
// conversation instead of creating a duplicate.
type CreateConversationUseCase struct {
	Chats chatrepo.ChatRepository
	Users userrepo.UserRepository
}

func NewCreateConversationUseCase(chats chatrepo.ChatRepository, users userrepo.UserRepository) *CreateConversationUseCase {
	return &CreateConversationUseCase{Chats: chats, Users: users}
}

// Execute returns the conversation and whether it was newly created.
func (uc *CreateConversationUseCase) Execute(ctx context.Context, initiatorID, otherID uuid.UUID) (*chat.Conversation, bool, error) {
	if initiatorID == otherID {
		return nil, false, chat.ErrSelfConversation
	}

	recipient, err := uc.Users.FindByID(ctx, otherID)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return nil, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !recipient.CanReceiveDMFrom(initiatorID) {
		return nil, false, chat.ErrDMNotAllowed
	}

	conv, created, err := uc.Chats.FindOrCreateConversation(ctx, initiatorID, otherID)
	if err != nil {
		if errors.Is(err, chat.ErrSelfConversation) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, created, nil
}
