package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/Br34th7aking/pingo/internal/infrastructure/cache/port"
	qport "github.com/Br34th7aking/pingo/internal/infrastructure/queue/port"
	repoAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
)

// FlagUnreadTaskType is the queue task name for bumping a recipient's unread
// counter after a direct message lands.
const FlagUnreadTaskType = "dm:flag_unread"

// FlagUnreadPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type FlagUnreadPayload struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}

// UnreadKey is the cache key holding a user's unread count for a conversation.
// The read path deletes it when the conversation is opened.
func UnreadKey(userID, conversationID uuid.UUID) string {
	return fmt.Sprintf("dm:unread:%s:%s", userID, conversationID)
}

// RegisterFlagUnreadTask binds the unread-counter handler to the provided
// server. The handler resolves the recipient from the stored conversation so a
// forged or stale payload can never bump someone outside it.
func RegisterFlagUnreadTask(srv qport.Server, pool *pgxpool.Pool, cache cport.Cache) {
	srv.Register(FlagUnreadTaskType, func(ctx context.Context, t qport.Task) error {
		var p FlagUnreadPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}
		conversationID, err := uuid.Parse(p.ConversationID)
		if err != nil {
			return err
		}
		senderID, err := uuid.Parse(p.SenderID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		repo := repoAdapter.NewPgChatRepository(pool)
		conv, err := repo.FindConversation(ctx, conversationID)
		if err != nil {
			return err
		}
		recipientID, ok := conv.OtherParticipant(senderID)
		if !ok {
			// sender left the payload pointing at a conversation they are not
			// part of; nothing to count
			return nil
		}

		_, err = cache.Incr(ctx, UnreadKey(recipientID, conversationID))
		return err
	})
}
