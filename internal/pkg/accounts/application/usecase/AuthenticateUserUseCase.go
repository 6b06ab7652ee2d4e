package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	repository "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
)

// AuthenticateUserUseCase implements the credential-store boundary:
// authenticate(email, password) -> User or ErrInvalidCredentials.
type AuthenticateUserUseCase struct {
	Users repository.UserRepository
}

func NewAuthenticateUserUseCase(users repository.UserRepository) *AuthenticateUserUseCase {
	return &AuthenticateUserUseCase{Users: users}
}

// Execute verifies the email/password pair against the stored bcrypt hash.
// An unknown email and a wrong password are indistinguishable to the caller.
func (uc *AuthenticateUserUseCase) Execute(ctx context.Context, email, password string) (*accounts.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, accounts.ErrInvalidCredentials
	}

	user, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return nil, accounts.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, accounts.ErrInvalidCredentials
	}
	return user, nil
}
