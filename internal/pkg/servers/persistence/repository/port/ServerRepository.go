package repository

import (
	"context"

	"github.com/google/uuid"

	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// ServerRepository defines persistence operations for servers and their
// memberships. Absent rows surface as the domain not-found errors.
type ServerRepository interface {
	FindServer(ctx context.Context, id uuid.UUID) (*servers.Server, error)

	// FindMembership returns servers.ErrNotAMember when the user has no
	// membership row for the server.
	FindMembership(ctx context.Context, serverID, userID uuid.UUID) (*servers.Membership, error)

	// CreateServer persists the server, its owner membership and the default
	// "general" channel in one transaction.
	CreateServer(ctx context.Context, s servers.Server) (*servers.Server, error)

	AddMember(ctx context.Context, serverID, userID uuid.UUID, role servers.Role) error
}
