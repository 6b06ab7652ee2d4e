package servers

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrServerNotFound     = errors.New("servers: server not found")
	ErrNotAMember         = errors.New("servers: user is not a member of this server")
	ErrDuplicateMember    = errors.New("servers: user is already a member of this server")
	ErrInvalidServerInput = errors.New("servers: name is required")
)

// Visibility controls whether a server shows up in discovery.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Server is a named group of members that owns channels.
type Server struct {
	ID          uuid.UUID  `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Visibility  Visibility `db:"visibility"`
	InviteCode  *string    `db:"invite_code"`
	OwnerID     uuid.UUID  `db:"owner_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Membership is the (user, server, role) triple. One membership per
// (user, server); the owner membership is created with the server itself.
type Membership struct {
	UserID    uuid.UUID `db:"user_id"`
	ServerID  uuid.UUID `db:"server_id"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}
