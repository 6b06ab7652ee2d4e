package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	repository "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

// --- Channels ---

const channelColumns = `id::text, server_id::text, name, description, created_by::text,
	min_view_role, min_read_role, min_message_role, created_at, updated_at`

func (r *PgChatRepository) FindChannel(ctx context.Context, serverID, channelID uuid.UUID) (*chat.Channel, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+channelColumns+`
		FROM channels_channel
		WHERE id = $1::uuid AND server_id = $2::uuid
	`, channelID.String(), serverID.String())
	c, err := scanChannel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrChannelNotFound
	}
	return c, err
}

func (r *PgChatRepository) ListChannels(ctx context.Context, serverID uuid.UUID) ([]chat.Channel, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+channelColumns+`
		FROM channels_channel
		WHERE server_id = $1::uuid
		ORDER BY created_at ASC
	`, serverID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []chat.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *c)
	}
	return channels, rows.Err()
}

func (r *PgChatRepository) CreateChannel(ctx context.Context, c chat.Channel) (*chat.Channel, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var createdBy *string
	if c.CreatedBy != nil {
		s := c.CreatedBy.String()
		createdBy = &s
	}
	var idText string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO channels_channel (server_id, name, description, created_by, min_view_role, min_read_role, min_message_role)
		VALUES ($1::uuid, $2, $3, $4::uuid, $5, $6, $7)
		RETURNING id::text, created_at, updated_at
	`, c.ServerID.String(), c.Name, c.Description, createdBy,
		c.Thresholds.MinView.String(), c.Thresholds.MinRead.String(), c.Thresholds.MinMessage.String(),
	).Scan(&idText, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, chat.ErrDuplicateChannel
	}
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (r *PgChatRepository) UpdateChannel(ctx context.Context, c chat.Channel) (*chat.Channel, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE channels_channel
		SET name = $3, description = $4,
		    min_view_role = $5, min_read_role = $6, min_message_role = $7,
		    updated_at = now()
		WHERE id = $1::uuid AND server_id = $2::uuid
		RETURNING created_at, updated_at
	`, c.ID.String(), c.ServerID.String(), c.Name, c.Description,
		c.Thresholds.MinView.String(), c.Thresholds.MinRead.String(), c.Thresholds.MinMessage.String(),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrChannelNotFound
	}
	if isUniqueViolation(err) {
		return nil, chat.ErrDuplicateChannel
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgChatRepository) DeleteChannel(ctx context.Context, serverID, channelID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM channels_channel
		WHERE id = $1::uuid AND server_id = $2::uuid
	`, channelID.String(), serverID.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrChannelNotFound
	}
	return nil
}

// --- Channel messages ---

const messageColumns = `id::text, channel_id::text, author_id::text, content, is_deleted, created_at, updated_at`

func (r *PgChatRepository) CreateMessage(ctx context.Context, channelID, authorID uuid.UUID, content string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	m := chat.Message{ChannelID: channelID, AuthorID: &authorID, Content: content}
	var idText string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO channels_message (channel_id, author_id, content)
		VALUES ($1::uuid, $2::uuid, $3)
		RETURNING id::text, created_at, updated_at
	`, channelID.String(), authorID.String(), content).Scan(&idText, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return &m, nil
}

func (r *PgChatRepository) GetMessage(ctx context.Context, channelID, messageID uuid.UUID) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM channels_message
		WHERE id = $1::uuid AND channel_id = $2::uuid
	`, messageID.String(), channelID.String())
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	return m, err
}

func (r *PgChatRepository) ListMessages(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	limit, offset = normalizePage(limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM channels_message
		WHERE channel_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, channelID.String(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) UpdateMessageContent(ctx context.Context, messageID uuid.UUID, content string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE channels_message
		SET content = $2, updated_at = now()
		WHERE id = $1::uuid AND is_deleted = false
		RETURNING `+messageColumns+`
	`, messageID.String(), content)
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	return m, err
}

// SoftDeleteMessage sets the tombstone flag. Content stays in storage and is
// redacted on read.
func (r *PgChatRepository) SoftDeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE channels_message
		SET is_deleted = true, updated_at = now()
		WHERE id = $1::uuid
	`, messageID.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

// --- Conversations ---

const conversationColumns = `id::text, participant1_id::text, participant2_id::text, created_at`

func (r *PgChatRepository) FindConversation(ctx context.Context, id uuid.UUID) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM dm_conversation
		WHERE id = $1::uuid
	`, id.String())
	c, err := scanConversation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	return c, err
}

func (r *PgChatRepository) FindOrCreateConversation(ctx context.Context, a, b uuid.UUID) (*chat.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return nil, false, errors.New("PgChatRepository: nil pool")
	}
	p1, p2, err := chat.CanonicalPair(a, b)
	if err != nil {
		return nil, false, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO dm_conversation (participant1_id, participant2_id)
		VALUES ($1::uuid, $2::uuid)
		ON CONFLICT (participant1_id, participant2_id) DO NOTHING
		RETURNING `+conversationColumns+`
	`, p1.String(), p2.String())
	c, err := scanConversation(row)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Conflict: the pair already has a conversation.
	row = r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM dm_conversation
		WHERE participant1_id = $1::uuid AND participant2_id = $2::uuid
	`, p1.String(), p2.String())
	c, err = scanConversation(row)
	if err != nil {
		return nil, false, err
	}
	return c, false, nil
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM dm_conversation
		WHERE participant1_id = $1::uuid OR participant2_id = $1::uuid
		ORDER BY created_at DESC
	`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *c)
	}
	return convs, rows.Err()
}

// --- Direct messages ---

const directMessageColumns = `id::text, conversation_id::text, sender_id::text, content, is_read, is_deleted, created_at, updated_at`

func (r *PgChatRepository) CreateDirectMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*chat.DirectMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	m := chat.DirectMessage{ConversationID: conversationID, SenderID: &senderID, Content: content}
	var idText string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO dm_directmessage (conversation_id, sender_id, content)
		VALUES ($1::uuid, $2::uuid, $3)
		RETURNING id::text, created_at, updated_at
	`, conversationID.String(), senderID.String(), content).Scan(&idText, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return &m, nil
}

func (r *PgChatRepository) ListDirectMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.DirectMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	limit, offset = normalizePage(limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+directMessageColumns+`
		FROM dm_directmessage
		WHERE conversation_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, conversationID.String(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.DirectMessage
	for rows.Next() {
		m, err := scanDirectMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE dm_directmessage
		SET is_read = true, updated_at = now()
		WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND is_read = false
	`, conversationID.String(), readerID.String())
	return err
}

// --- scanning helpers ---

func scanChannel(row pgx.Row) (*chat.Channel, error) {
	var (
		c                        chat.Channel
		idText, serverText       string
		createdBy                *string
		minView, minRead, minMsg string
	)
	err := row.Scan(&idText, &serverText, &c.Name, &c.Description, &createdBy,
		&minView, &minRead, &minMsg, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.ID, err = uuid.Parse(idText); err != nil {
		return nil, err
	}
	if c.ServerID, err = uuid.Parse(serverText); err != nil {
		return nil, err
	}
	if createdBy != nil {
		id, err := uuid.Parse(*createdBy)
		if err != nil {
			return nil, err
		}
		c.CreatedBy = &id
	}
	if c.Thresholds.MinView, err = servers.ParseRole(minView); err != nil {
		return nil, err
	}
	if c.Thresholds.MinRead, err = servers.ParseRole(minRead); err != nil {
		return nil, err
	}
	if c.Thresholds.MinMessage, err = servers.ParseRole(minMsg); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var (
		m                   chat.Message
		idText, channelText string
		authorText          *string
	)
	err := row.Scan(&idText, &channelText, &authorText, &m.Content, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if m.ID, err = uuid.Parse(idText); err != nil {
		return nil, err
	}
	if m.ChannelID, err = uuid.Parse(channelText); err != nil {
		return nil, err
	}
	if authorText != nil {
		id, err := uuid.Parse(*authorText)
		if err != nil {
			return nil, err
		}
		m.AuthorID = &id
	}
	return &m, nil
}

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var (
		c                      chat.Conversation
		idText, p1Text, p2Text string
	)
	err := row.Scan(&idText, &p1Text, &p2Text, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if c.ID, err = uuid.Parse(idText); err != nil {
		return nil, err
	}
	if c.Participant1, err = uuid.Parse(p1Text); err != nil {
		return nil, err
	}
	if c.Participant2, err = uuid.Parse(p2Text); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanDirectMessage(row pgx.Row) (*chat.DirectMessage, error) {
	var (
		m                chat.DirectMessage
		idText, convText string
		senderText       *string
	)
	err := row.Scan(&idText, &convText, &senderText, &m.Content, &m.IsRead, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if m.ID, err = uuid.Parse(idText); err != nil {
		return nil, err
	}
	if m.ConversationID, err = uuid.Parse(convText); err != nil {
		return nil, err
	}
	if senderText != nil {
		id, err := uuid.Parse(*senderText)
		if err != nil {
			return nil, err
		}
		m.SenderID = &id
	}
	return &m, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
