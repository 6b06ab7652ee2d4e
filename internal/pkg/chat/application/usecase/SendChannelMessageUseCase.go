package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// SendChannelMessageInput carries the data needed to post a channel message.
type SendChannelMessageInput struct {
	ServerID  uuid.UUID
	ChannelID uuid.UUID
	AuthorID  uuid.UUID
	Content   string
}

// SendChannelMessageUseCase validates and persists a channel message.
// Authorization is re-resolved on every call: roles and thresholds may have
// changed since the author's session was established.
type SendChannelMessageUseCase struct {
	Access *ResolveChannelAccessUseCase
	Chats  chatrepo.ChatRepository
}

func NewSendChannelMessageUseCase(access *ResolveChannelAccessUseCase, chats chatrepo.ChatRepository) *SendChannelMessageUseCase {
	return &SendChannelMessageUseCase{Access: access, Chats: chats}
}

// Execute checks content and the author's current post permission, then
// persists the message. The caller broadcasts only after a nil error return.
func (uc *SendChannelMessageUseCase) Execute(ctx context.Context, in SendChannelMessageInput) (*chat.Message, error) {
	content, err := chat.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	access, err := uc.Access.Execute(ctx, in.ServerID, in.ChannelID, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !access.Permissions.CanPost {
		return nil, chat.ErrPostForbidden
	}

	msg, err := uc.Chats.CreateMessage(ctx, in.ChannelID, in.AuthorID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
