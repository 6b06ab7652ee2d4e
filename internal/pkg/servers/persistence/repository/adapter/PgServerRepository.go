package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
	repository "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/port"
)

type PgServerRepository struct {
	pool *pgxpool.Pool
}

func NewPgServerRepository(pool *pgxpool.Pool) *PgServerRepository {
	return &PgServerRepository{pool: pool}
}

var _ repository.ServerRepository = (*PgServerRepository)(nil)

func (r *PgServerRepository) FindServer(ctx context.Context, id uuid.UUID) (*servers.Server, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgServerRepository: nil pool")
	}
	var (
		s          servers.Server
		idText     string
		ownerText  string
		visibility string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, description, visibility, invite_code, owner_id::text, created_at, updated_at
		FROM servers_server
		WHERE id = $1::uuid
	`, id.String()).Scan(&idText, &s.Name, &s.Description, &visibility, &s.InviteCode, &ownerText, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, servers.ErrServerNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.ID, err = uuid.Parse(idText); err != nil {
		return nil, err
	}
	if s.OwnerID, err = uuid.Parse(ownerText); err != nil {
		return nil, err
	}
	s.Visibility = servers.Visibility(visibility)
	return &s, nil
}

func (r *PgServerRepository) FindMembership(ctx context.Context, serverID, userID uuid.UUID) (*servers.Membership, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgServerRepository: nil pool")
	}
	var roleText string
	m := servers.Membership{ServerID: serverID, UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT role, created_at
		FROM servers_membership
		WHERE server_id = $1::uuid AND user_id = $2::uuid
	`, serverID.String(), userID.String()).Scan(&roleText, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, servers.ErrNotAMember
	}
	if err != nil {
		return nil, err
	}
	role, err := servers.ParseRole(roleText)
	if err != nil {
		return nil, err
	}
	m.Role = role
	return &m, nil
}

// CreateServer inserts the server row, the owner's membership and the default
// "general" channel atomically.
func (r *PgServerRepository) CreateServer(ctx context.Context, s servers.Server) (*servers.Server, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgServerRepository: nil pool")
	}
	if s.Name == "" {
		return nil, servers.ErrInvalidServerInput
	}
	if s.Visibility == "" {
		s.Visibility = servers.VisibilityPublic
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var idText string
	err = tx.QueryRow(ctx, `
		INSERT INTO servers_server (name, description, visibility, invite_code, owner_id)
		VALUES ($1, $2, $3, $4, $5::uuid)
		RETURNING id::text, created_at, updated_at
	`, s.Name, s.Description, string(s.Visibility), s.InviteCode, s.OwnerID.String()).Scan(&idText, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.ID, err = uuid.Parse(idText); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO servers_membership (server_id, user_id, role)
		VALUES ($1::uuid, $2::uuid, $3)
		ON CONFLICT (server_id, user_id) DO NOTHING
	`, s.ID.String(), s.OwnerID.String(), servers.RoleOwner.String())
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO channels_channel (server_id, name, description, created_by)
		VALUES ($1::uuid, 'general', 'General discussion', $2::uuid)
	`, s.ID.String(), s.OwnerID.String())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgServerRepository) AddMember(ctx context.Context, serverID, userID uuid.UUID, role servers.Role) error {
	if r == nil || r.pool == nil {
		return errors.New("PgServerRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO servers_membership (server_id, user_id, role)
		VALUES ($1::uuid, $2::uuid, $3)
		ON CONFLICT (server_id, user_id) DO NOTHING
	`, serverID.String(), userID.String(), role.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return servers.ErrDuplicateMember
	}
	return nil
}
