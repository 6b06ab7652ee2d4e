package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	repository "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

const userColumns = `id::text, email, display_name, bio, allow_dms_from, password, created_at, updated_at`

func (r *PgUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM accounts_user WHERE id = $1::uuid`, id.String())
	return scanUser(row)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM accounts_user WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PgUserRepository) UpdateDMPrivacy(ctx context.Context, id uuid.UUID, privacy accounts.DMPrivacy) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE accounts_user
		SET allow_dms_from = $2, updated_at = now()
		WHERE id = $1::uuid
	`, id.String(), string(privacy))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*accounts.User, error) {
	var (
		u       accounts.User
		idText  string
		privacy string
	)
	err := row.Scan(&idText, &u.Email, &u.DisplayName, &u.Bio, &privacy, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, accounts.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, err
	}
	u.ID = id
	u.AllowDMsFrom = accounts.DMPrivacy(privacy)
	return &u, nil
}
