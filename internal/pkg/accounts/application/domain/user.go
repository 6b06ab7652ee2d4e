package accounts

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Domain-level errors for account behaviors
var (
	ErrInvalidCredentials = errors.New("accounts: invalid email or password")
	ErrUserNotFound       = errors.New("accounts: user not found")
)

// DMPrivacy controls who may open a direct conversation with a user.
type DMPrivacy string

const (
	DMPrivacyEveryone DMPrivacy = "everyone"
	DMPrivacyFriends  DMPrivacy = "friends"
	DMPrivacyNone     DMPrivacy = "none"
)

// User is the account identity referenced by memberships, messages and
// conversations. PasswordHash is a bcrypt hash and never leaves the
// persistence/usecase boundary.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	Bio          *string   `db:"bio"`
	AllowDMsFrom DMPrivacy `db:"allow_dms_from"`
	PasswordHash string    `db:"password"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Summary is the public projection of a user embedded in message payloads.
type Summary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// Summary returns the public projection of u.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, DisplayName: u.DisplayName}
}

// CanReceiveDMFrom reports whether this user accepts direct messages from the
// given sender under their current privacy setting. The "friends" setting has
// no friend graph behind it yet and currently behaves like "everyone".
func (u *User) CanReceiveDMFrom(senderID uuid.UUID) bool {
	switch u.AllowDMsFrom {
	case DMPrivacyEveryone:
		return true
	case DMPrivacyNone:
		return false
	case DMPrivacyFriends:
		return true
	default:
		return false
	}
}
