package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// memUsers is an in-memory UserRepository.
type memUsers struct {
	users map[uuid.UUID]*accounts.User
}

func newMemUsers(users ...*accounts.User) *memUsers {
	m := &memUsers{users: make(map[uuid.UUID]*accounts.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*accounts.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, accounts.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*accounts.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, accounts.ErrUserNotFound
}

func (m *memUsers) UpdateDMPrivacy(_ context.Context, id uuid.UUID, privacy accounts.DMPrivacy) error {
	u, ok := m.users[id]
	if !ok {
		return accounts.ErrUserNotFound
	}
	u.AllowDMsFrom = privacy
	return nil
}

// memServers is an in-memory ServerRepository.
type memServers struct {
	servers     map[uuid.UUID]*servers.Server
	memberships map[uuid.UUID]map[uuid.UUID]*servers.Membership
}

func newMemServers() *memServers {
	return &memServers{
		servers:     make(map[uuid.UUID]*servers.Server),
		memberships: make(map[uuid.UUID]map[uuid.UUID]*servers.Membership),
	}
}

func (m *memServers) addServer(s *servers.Server) {
	m.servers[s.ID] = s
	if m.memberships[s.ID] == nil {
		m.memberships[s.ID] = make(map[uuid.UUID]*servers.Membership)
	}
}

func (m *memServers) addMembership(serverID, userID uuid.UUID, role servers.Role) {
	if m.memberships[serverID] == nil {
		m.memberships[serverID] = make(map[uuid.UUID]*servers.Membership)
	}
	m.memberships[serverID][userID] = &servers.Membership{
		UserID: userID, ServerID: serverID, Role: role, CreatedAt: time.Now(),
	}
}

func (m *memServers) FindServer(_ context.Context, id uuid.UUID) (*servers.Server, error) {
	s, ok := m.servers[id]
	if !ok {
		return nil, servers.ErrServerNotFound
	}
	return s, nil
}

func (m *memServers) FindMembership(_ context.Context, serverID, userID uuid.UUID) (*servers.Membership, error) {
	mem, ok := m.memberships[serverID][userID]
	if !ok {
		return nil, servers.ErrNotAMember
	}
	return mem, nil
}

func (m *memServers) CreateServer(_ context.Context, s servers.Server) (*servers.Server, error) {
	s.ID = uuid.New()
	m.addServer(&s)
	m.addMembership(s.ID, s.OwnerID, servers.RoleOwner)
	return &s, nil
}

func (m *memServers) AddMember(_ context.Context, serverID, userID uuid.UUID, role servers.Role) error {
	if _, ok := m.memberships[serverID][userID]; ok {
		return servers.ErrDuplicateMember
	}
	m.addMembership(serverID, userID, role)
	return nil
}

// memChats is an in-memory ChatRepository.
type memChats struct {
	channels      map[uuid.UUID]*chat.Channel
	messages      map[uuid.UUID]*chat.Message
	conversations map[uuid.UUID]*chat.Conversation
	directs       map[uuid.UUID]*chat.DirectMessage
}

func newMemChats() *memChats {
	return &memChats{
		channels:      make(map[uuid.UUID]*chat.Channel),
		messages:      make(map[uuid.UUID]*chat.Message),
		conversations: make(map[uuid.UUID]*chat.Conversation),
		directs:       make(map[uuid.UUID]*chat.DirectMessage),
	}
}

func (m *memChats) addChannel(c *chat.Channel) {
	m.channels[c.ID] = c
}

func (m *memChats) FindChannel(_ context.Context, serverID, channelID uuid.UUID) (*chat.Channel, error) {
	c, ok := m.channels[channelID]
	if !ok || c.ServerID != serverID {
		return nil, chat.ErrChannelNotFound
	}
	return c, nil
}

func (m *memChats) ListChannels(_ context.Context, serverID uuid.UUID) ([]chat.Channel, error) {
	var out []chat.Channel
	for _, c := range m.channels {
		if c.ServerID == serverID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memChats) CreateChannel(_ context.Context, c chat.Channel) (*chat.Channel, error) {
	for _, existing := range m.channels {
		if existing.ServerID == c.ServerID && existing.Name == c.Name {
			return nil, chat.ErrDuplicateChannel
		}
	}
	c.ID = uuid.New()
	m.channels[c.ID] = &c
	return &c, nil
}

func (m *memChats) UpdateChannel(_ context.Context, c chat.Channel) (*chat.Channel, error) {
	existing, ok := m.channels[c.ID]
	if !ok || existing.ServerID != c.ServerID {
		return nil, chat.ErrChannelNotFound
	}
	existing.Name = c.Name
	existing.Description = c.Description
	existing.Thresholds = c.Thresholds
	return existing, nil
}

func (m *memChats) DeleteChannel(_ context.Context, serverID, channelID uuid.UUID) error {
	c, ok := m.channels[channelID]
	if !ok || c.ServerID != serverID {
		return chat.ErrChannelNotFound
	}
	delete(m.channels, channelID)
	return nil
}

func (m *memChats) CreateMessage(_ context.Context, channelID, authorID uuid.UUID, content string) (*chat.Message, error) {
	msg := &chat.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		AuthorID:  &authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.messages[msg.ID] = msg
	return msg, nil
}

func (m *memChats) GetMessage(_ context.Context, channelID, messageID uuid.UUID) (*chat.Message, error) {
	msg, ok := m.messages[messageID]
	if !ok || msg.ChannelID != channelID {
		return nil, chat.ErrMessageNotFound
	}
	return msg, nil
}

func (m *memChats) ListMessages(_ context.Context, channelID uuid.UUID, _, _ int) ([]chat.Message, error) {
	var out []chat.Message
	for _, msg := range m.messages {
		if msg.ChannelID == channelID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memChats) UpdateMessageContent(_ context.Context, messageID uuid.UUID, content string) (*chat.Message, error) {
	msg, ok := m.messages[messageID]
	if !ok {
		return nil, chat.ErrMessageNotFound
	}
	msg.Content = content
	msg.UpdatedAt = time.Now()
	return msg, nil
}

func (m *memChats) SoftDeleteMessage(_ context.Context, messageID uuid.UUID) error {
	msg, ok := m.messages[messageID]
	if !ok {
		return chat.ErrMessageNotFound
	}
	msg.IsDeleted = true
	return nil
}

func (m *memChats) FindConversation(_ context.Context, id uuid.UUID) (*chat.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, chat.ErrConversationNotFound
	}
	return conv, nil
}

func (m *memChats) FindOrCreateConversation(_ context.Context, a, b uuid.UUID) (*chat.Conversation, bool, error) {
	p1, p2, err := chat.CanonicalPair(a, b)
	if err != nil {
		return nil, false, err
	}
	for _, conv := range m.conversations {
		if conv.Participant1 == p1 && conv.Participant2 == p2 {
			return conv, false, nil
		}
	}
	conv := &chat.Conversation{ID: uuid.New(), Participant1: p1, Participant2: p2, CreatedAt: time.Now()}
	m.conversations[conv.ID] = conv
	return conv, true, nil
}

func (m *memChats) ListConversations(_ context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for _, conv := range m.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (m *memChats) CreateDirectMessage(_ context.Context, conversationID, senderID uuid.UUID, content string) (*chat.DirectMessage, error) {
	msg := &chat.DirectMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       &senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	m.directs[msg.ID] = msg
	return msg, nil
}

func (m *memChats) ListDirectMessages(_ context.Context, conversationID uuid.UUID, _, _ int) ([]chat.DirectMessage, error) {
	var out []chat.DirectMessage
	for _, msg := range m.directs {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memChats) MarkConversationRead(_ context.Context, conversationID, readerID uuid.UUID) error {
	for _, msg := range m.directs {
		if msg.ConversationID == conversationID && msg.SenderID != nil && *msg.SenderID != readerID {
			msg.IsRead = true
		}
	}
	return nil
}
