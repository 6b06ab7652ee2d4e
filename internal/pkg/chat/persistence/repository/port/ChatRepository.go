package repository

import (
	"context"

	"github.com/google/uuid"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for channels, channel
// messages, conversations and direct messages. Absent rows surface as the
// chat domain not-found errors. Messages are never hard-deleted; deletion
// sets the tombstone flag only.
type ChatRepository interface {
	// --- Channels ---
	FindChannel(ctx context.Context, serverID, channelID uuid.UUID) (*chat.Channel, error)
	ListChannels(ctx context.Context, serverID uuid.UUID) ([]chat.Channel, error)
	CreateChannel(ctx context.Context, c chat.Channel) (*chat.Channel, error)
	UpdateChannel(ctx context.Context, c chat.Channel) (*chat.Channel, error)
	DeleteChannel(ctx context.Context, serverID, channelID uuid.UUID) error

	// --- Channel messages ---
	CreateMessage(ctx context.Context, channelID, authorID uuid.UUID, content string) (*chat.Message, error)
	GetMessage(ctx context.Context, channelID, messageID uuid.UUID) (*chat.Message, error)
	ListMessages(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]chat.Message, error)
	UpdateMessageContent(ctx context.Context, messageID uuid.UUID, content string) (*chat.Message, error)
	SoftDeleteMessage(ctx context.Context, messageID uuid.UUID) error

	// --- Conversations ---
	FindConversation(ctx context.Context, id uuid.UUID) (*chat.Conversation, error)

	// FindOrCreateConversation resolves the conversation for the unordered
	// user pair, creating it on first use. The second return reports whether
	// a new row was created.
	FindOrCreateConversation(ctx context.Context, a, b uuid.UUID) (*chat.Conversation, bool, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error)

	// --- Direct messages ---
	CreateDirectMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*chat.DirectMessage, error)
	ListDirectMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.DirectMessage, error)

	// MarkConversationRead flags every message addressed to reader (i.e. not
	// sent by them) as read.
	MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}
