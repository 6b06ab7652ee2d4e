package repository

import (
	"context"

	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
)

// UserRepository defines persistence operations for the accounts domain.
// Lookups of absent users return accounts.ErrUserNotFound.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*accounts.User, error)
	FindByEmail(ctx context.Context, email string) (*accounts.User, error)
	UpdateDMPrivacy(ctx context.Context, id uuid.UUID, privacy accounts.DMPrivacy) error
}
