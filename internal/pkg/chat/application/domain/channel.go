package chat

import (
	"time"

	"github.com/google/uuid"

	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// Thresholds are a channel's minimum-role gates, one per capability.
// All three default to member.
type Thresholds struct {
	MinView    servers.Role `db:"min_view_role"`
	MinRead    servers.Role `db:"min_read_role"`
	MinMessage servers.Role `db:"min_message_role"`
}

// Channel is a chat room inside a server. Name is unique within the server.
type Channel struct {
	ID          uuid.UUID  `db:"id"`
	ServerID    uuid.UUID  `db:"server_id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	CreatedBy   *uuid.UUID `db:"created_by"`
	Thresholds  Thresholds
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
