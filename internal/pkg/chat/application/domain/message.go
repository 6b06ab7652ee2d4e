package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// DeletedPlaceholder replaces the content of tombstoned messages on read.
const DeletedPlaceholder = "[Message deleted]"

// MaxContentLength bounds message content, matching the storage column.
const MaxContentLength = 1000

// Message is a channel message. Content is immutable after creation except
// for an explicit edit; deletion only sets the tombstone flag, the row is
// never removed and reads redact the content instead.
type Message struct {
	ID        uuid.UUID  `db:"id"`
	ChannelID uuid.UUID  `db:"channel_id"`
	AuthorID  *uuid.UUID `db:"author_id"`
	Content   string     `db:"content"`
	IsDeleted bool       `db:"is_deleted"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// VisibleContent returns the content clients may see, honoring the tombstone.
func (m *Message) VisibleContent() string {
	if m.IsDeleted {
		return DeletedPlaceholder
	}
	return m.Content
}

// CanModify reports whether userID may edit or delete this message: the
// author always can, and privileged roles (moderator and above) can moderate
// anyone's messages.
func (m *Message) CanModify(userID uuid.UUID, role servers.Role) bool {
	if m.AuthorID != nil && *m.AuthorID == userID {
		return true
	}
	return role.Privileged()
}

// ValidateContent trims and bounds message content. Empty or
// whitespace-only content is rejected before any storage call.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if len(trimmed) > MaxContentLength {
		trimmed = trimmed[:MaxContentLength]
	}
	return trimmed, nil
}

// MessagePayload is the wire projection of a channel message.
type MessagePayload struct {
	ID        uuid.UUID         `json:"id"`
	Content   string            `json:"content"`
	IsDeleted bool              `json:"is_deleted"`
	Author    *accounts.Summary `json:"author"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Payload projects the message for clients, applying tombstone redaction.
// author may be nil when the account was removed.
func (m *Message) Payload(author *accounts.Summary) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Content:   m.VisibleContent(),
		IsDeleted: m.IsDeleted,
		Author:    author,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
