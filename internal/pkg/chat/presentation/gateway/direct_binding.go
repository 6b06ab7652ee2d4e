package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	qport "github.com/Br34th7aking/pingo/internal/infrastructure/queue/port"
	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/task"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// DirectGroup derives the broadcast group key for a conversation. The
// conversation id already pins both participants, so it keys alone.
func DirectGroup(conversationID uuid.UUID) string {
	return fmt.Sprintf("dm_%s", conversationID)
}

// DirectBinding authorizes a session against a two-party conversation and
// posts through the direct message pipeline.
type DirectBinding struct {
	ConversationID uuid.UUID

	Chats  chatrepo.ChatRepository
	Send   *usecase.SendDirectMessageUseCase
	Queue  qport.Client
	Logger *slog.Logger
}

var _ Binding = (*DirectBinding)(nil)

func (b *DirectBinding) Kind() string {
	return TypeDirectMessage
}

func (b *DirectBinding) Describe() map[string]any {
	return map[string]any{
		"conversation_id": b.ConversationID.String(),
	}
}

// Authorize requires the user to be one of the conversation's exactly-two
// participants. There is no role model here; participation is the whole
// permission check.
func (b *DirectBinding) Authorize(ctx context.Context, user *accounts.User) (*Grant, error) {
	conv, err := b.Chats.FindConversation(ctx, b.ConversationID)
	if errors.Is(err, chat.ErrConversationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrPersistence, err)
	}

	other, ok := conv.OtherParticipant(user.ID)
	if !ok {
		return nil, chat.ErrNotParticipant
	}

	return &Grant{
		User:  user,
		Group: DirectGroup(b.ConversationID),
		Resource: map[string]any{
			"conversation": map[string]any{
				"id":         conv.ID.String(),
				"with_user":  other.String(),
				"created_at": conv.CreatedAt,
			},
		},
	}, nil
}

// Post persists through the send usecase, which re-reads the recipient's
// current DM privacy, then builds the broadcast envelope. A successful send
// also queues the recipient's unread-counter bump; queue trouble is logged
// and never fails the message.
func (b *DirectBinding) Post(ctx context.Context, user *accounts.User, content string) ([]byte, error) {
	msg, err := b.Send.Execute(ctx, usecase.SendDirectMessageInput{
		ConversationID: b.ConversationID,
		SenderID:       user.ID,
		Content:        content,
	})
	if err != nil {
		return nil, err
	}

	b.enqueueUnread(ctx, user.ID)

	sender := user.Summary()
	return DirectMessageEnvelope(msg.Payload(&sender)), nil
}

func (b *DirectBinding) enqueueUnread(ctx context.Context, senderID uuid.UUID) {
	if b.Queue == nil {
		return
	}
	payload, err := json.Marshal(task.FlagUnreadPayload{
		ConversationID: b.ConversationID.String(),
		SenderID:       senderID.String(),
	})
	if err != nil {
		return
	}
	if _, err := b.Queue.Enqueue(ctx, qport.Task{Type: task.FlagUnreadTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 3}); err != nil && b.Logger != nil {
		b.Logger.Warn("unread task enqueue failed", slog.Any("error", err))
	}
}
