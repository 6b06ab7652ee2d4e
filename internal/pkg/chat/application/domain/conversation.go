package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
)

// Conversation is a private thread between exactly two users. The pair is
// unordered but stored canonically (lower uuid first) so the unordered pair
// maps to at most one row.
type Conversation struct {
	ID           uuid.UUID `db:"id"`
	Participant1 uuid.UUID `db:"participant1_id"`
	Participant2 uuid.UUID `db:"participant2_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// CanonicalPair orders two user ids for storage. Returns ErrSelfConversation
// when both sides are the same user.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	if a == b {
		return uuid.Nil, uuid.Nil, ErrSelfConversation
	}
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	return a, b, nil
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.Participant1 == userID || c.Participant2 == userID
}

// OtherParticipant returns the counterpart of userID in the conversation.
// The second return is false when userID is not a participant at all.
func (c *Conversation) OtherParticipant(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case c.Participant1:
		return c.Participant2, true
	case c.Participant2:
		return c.Participant1, true
	default:
		return uuid.Nil, false
	}
}

// DirectMessage is a message inside a Conversation. Same tombstone rules as
// channel messages, plus a per-recipient read flag.
type DirectMessage struct {
	ID             uuid.UUID  `db:"id"`
	ConversationID uuid.UUID  `db:"conversation_id"`
	SenderID       *uuid.UUID `db:"sender_id"`
	Content        string     `db:"content"`
	IsRead         bool       `db:"is_read"`
	IsDeleted      bool       `db:"is_deleted"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// VisibleContent returns the content clients may see, honoring the tombstone.
func (m *DirectMessage) VisibleContent() string {
	if m.IsDeleted {
		return DeletedPlaceholder
	}
	return m.Content
}

// DirectMessagePayload is the wire projection of a direct message.
type DirectMessagePayload struct {
	ID             uuid.UUID         `json:"id"`
	ConversationID uuid.UUID         `json:"conversation_id"`
	Content        string            `json:"content"`
	IsRead         bool              `json:"is_read"`
	IsDeleted      bool              `json:"is_deleted"`
	Sender         *accounts.Summary `json:"sender"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Payload projects the direct message for clients, applying redaction.
func (m *DirectMessage) Payload(sender *accounts.Summary) DirectMessagePayload {
	return DirectMessagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Content:        m.VisibleContent(),
		IsRead:         m.IsRead,
		IsDeleted:      m.IsDeleted,
		Sender:         sender,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
