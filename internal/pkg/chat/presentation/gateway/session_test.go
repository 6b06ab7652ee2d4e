package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

type fakeSink struct {
	frames    []map[string]any
	closed    bool
	closeCode int
	delivered [][]byte
}

func (s *fakeSink) Send(payload []byte) error {
	var frame map[string]any
	if err := json.Unmarshal(payload, &frame); err != nil {
		return err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeSink) Deliver(payload []byte) {
	s.delivered = append(s.delivered, payload)
}

func (s *fakeSink) Close(code int, reason string) {
	s.closed = true
	s.closeCode = code
}

func (s *fakeSink) last(t *testing.T) map[string]any {
	t.Helper()
	if len(s.frames) == 0 {
		t.Fatal("no frames sent")
	}
	return s.frames[len(s.frames)-1]
}

type fakeVerifier struct {
	tokens map[string]uuid.UUID
}

func (v *fakeVerifier) Verify(token string) (uuid.UUID, error) {
	id, ok := v.tokens[token]
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return id, nil
}

type fakeUsers struct {
	byID map[uuid.UUID]*accounts.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*accounts.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, accounts.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, _ string) (*accounts.User, error) {
	return nil, accounts.ErrUserNotFound
}

func (f *fakeUsers) UpdateDMPrivacy(_ context.Context, _ uuid.UUID, _ accounts.DMPrivacy) error {
	return nil
}

type fakeBinding struct {
	group    string
	authErr  error
	postErr  error
	envelope []byte
	posts    []string
}

func (b *fakeBinding) Kind() string { return TypeChatMessage }

func (b *fakeBinding) Describe() map[string]any {
	return map[string]any{"channel_id": "test-channel"}
}

func (b *fakeBinding) Authorize(_ context.Context, user *accounts.User) (*Grant, error) {
	if b.authErr != nil {
		return nil, b.authErr
	}
	return &Grant{User: user, Group: b.group, Resource: map[string]any{"channel_id": "test-channel"}}, nil
}

func (b *fakeBinding) Post(_ context.Context, _ *accounts.User, content string) ([]byte, error) {
	if b.postErr != nil {
		return nil, b.postErr
	}
	b.posts = append(b.posts, content)
	return b.envelope, nil
}

type sessionFixture struct {
	session *Session
	sink    *fakeSink
	binding *fakeBinding
	hub     *realtime.GroupHub
	userID  uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	userID := uuid.New()
	binding := &fakeBinding{
		group:    "chat_test",
		envelope: []byte(`{"type":"chat_message","message":{}}`),
	}
	sink := &fakeSink{}
	hub := realtime.NewGroupHub()
	verifier := &fakeVerifier{tokens: map[string]uuid.UUID{"good-token": userID}}
	users := &fakeUsers{byID: map[uuid.UUID]*accounts.User{
		userID: {ID: userID, DisplayName: "tester"},
	}}
	session := NewSession(binding, verifier, users, hub, sink, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &sessionFixture{session: session, sink: sink, binding: binding, hub: hub, userID: userID}
}

func (f *sessionFixture) authenticate(t *testing.T) {
	t.Helper()
	f.session.HandleFrame(context.Background(), []byte(`{"type":"auth","token":"good-token"}`))
	if f.session.State() != StateAuthenticated {
		t.Fatalf("state = %v after valid auth, want authenticated", f.session.State())
	}
}

func TestSessionGreeting(t *testing.T) {
	f := newSessionFixture(t)
	f.session.HandleOpen()

	frame := f.sink.last(t)
	if frame["type"] != TypeAuthRequired {
		t.Errorf("greeting type = %v, want auth_required", frame["type"])
	}
	if frame["channel_id"] != "test-channel" {
		t.Errorf("greeting missing binding description: %v", frame)
	}
}

// TestSessionRequiresAuthFirst verifies any pre-auth frame other than auth is
// rejected without closing the connection.
func TestSessionRequiresAuthFirst(t *testing.T) {
	f := newSessionFixture(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"chat_message","content":"hi"}`))

	frame := f.sink.last(t)
	if frame["type"] != TypeError {
		t.Errorf("frame type = %v, want error", frame["type"])
	}
	if f.sink.closed {
		t.Error("connection closed on pre-auth message")
	}
	if f.session.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", f.session.State())
	}
	if len(f.binding.posts) != 0 {
		t.Error("pre-auth message reached the binding")
	}
}

// TestSessionAuthFailureCloses verifies a bad token produces auth_error and
// the dedicated close code.
func TestSessionAuthFailureCloses(t *testing.T) {
	f := newSessionFixture(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"auth","token":"forged"}`))

	frame := f.sink.last(t)
	if frame["type"] != TypeAuthError {
		t.Errorf("frame type = %v, want auth_error", frame["type"])
	}
	if !f.sink.closed || f.sink.closeCode != CloseAuthFailure {
		t.Errorf("close code = %d (closed=%v), want %d", f.sink.closeCode, f.sink.closed, CloseAuthFailure)
	}
	if f.session.State() != StateClosed {
		t.Errorf("state = %v, want closed", f.session.State())
	}
}

func TestSessionAuthMissingToken(t *testing.T) {
	f := newSessionFixture(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"auth"}`))

	frame := f.sink.last(t)
	if frame["message"] != "No token provided" {
		t.Errorf("message = %v", frame["message"])
	}
	if !f.sink.closed {
		t.Error("connection not closed")
	}
}

// TestSessionAuthorizeFailure verifies binding rejections map to their client
// messages and close the handshake.
func TestSessionAuthorizeFailure(t *testing.T) {
	cases := []struct {
		err     error
		message string
	}{
		{servers.ErrServerNotFound, "Server not found"},
		{servers.ErrNotAMember, "You are not a member of this server"},
		{chat.ErrChannelNotFound, "Channel not found in this server"},
		{chat.ErrViewForbidden, "You do not have permission to view this channel"},
		{chat.ErrConversationNotFound, "Conversation not found"},
		{chat.ErrNotParticipant, "You are not a participant in this conversation"},
	}
	for _, tc := range cases {
		f := newSessionFixture(t)
		f.binding.authErr = tc.err

		f.session.HandleFrame(context.Background(), []byte(`{"type":"auth","token":"good-token"}`))

		frame := f.sink.last(t)
		if frame["type"] != TypeAuthError || frame["message"] != tc.message {
			t.Errorf("%v: got type=%v message=%v, want auth_error %q", tc.err, frame["type"], frame["message"], tc.message)
		}
		if !f.sink.closed {
			t.Errorf("%v: connection left open", tc.err)
		}
	}
}

func TestSessionAuthSuccess(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	frame := f.sink.last(t)
	if frame["type"] != TypeAuthSuccess {
		t.Fatalf("frame type = %v, want auth_success", frame["type"])
	}
	if frame["group_name"] != "chat_test" {
		t.Errorf("group_name = %v", frame["group_name"])
	}
	if f.hub.MemberCount("chat_test") != 1 {
		t.Errorf("group members = %d, want 1", f.hub.MemberCount("chat_test"))
	}
}

func TestSessionPingPong(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"ping"}`))

	frame := f.sink.last(t)
	if frame["type"] != TypePong {
		t.Errorf("frame type = %v, want pong", frame["type"])
	}
}

// TestSessionPostBroadcasts verifies a post reaches every group member,
// the sender included, through the broadcast path.
func TestSessionPostBroadcasts(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	peer := &fakeSink{}
	_ = f.hub.Subscribe(context.Background(), "chat_test", peer)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"chat_message","content":"hello"}`))

	if len(f.binding.posts) != 1 || f.binding.posts[0] != "hello" {
		t.Fatalf("binding posts = %v", f.binding.posts)
	}
	if len(f.sink.delivered) != 1 {
		t.Errorf("sender deliveries = %d, want 1", len(f.sink.delivered))
	}
	if len(peer.delivered) != 1 {
		t.Errorf("peer deliveries = %d, want 1", len(peer.delivered))
	}
}

// TestSessionPostFailureSenderOnly verifies a failed post reports to the
// sender alone and the session survives.
func TestSessionPostFailureSenderOnly(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)
	f.binding.postErr = chat.ErrEmptyContent

	peer := &fakeSink{}
	_ = f.hub.Subscribe(context.Background(), "chat_test", peer)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"chat_message","content":"  "}`))

	frame := f.sink.last(t)
	if frame["type"] != TypeError || frame["message"] != "Message content cannot be empty" {
		t.Errorf("got type=%v message=%v", frame["type"], frame["message"])
	}
	if len(peer.delivered) != 0 {
		t.Errorf("peer got %d deliveries from a failed post", len(peer.delivered))
	}
	if f.session.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", f.session.State())
	}
}

func TestSessionPostPermissionDenied(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)
	f.binding.postErr = chat.ErrPostForbidden

	f.session.HandleFrame(context.Background(), []byte(`{"type":"chat_message","content":"hi"}`))

	frame := f.sink.last(t)
	if frame["message"] != "You do not have permission to post messages in this channel" {
		t.Errorf("message = %v", frame["message"])
	}
	if f.session.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", f.session.State())
	}
}

func TestSessionUnknownType(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"mystery"}`))

	frame := f.sink.last(t)
	if frame["type"] != TypeError {
		t.Fatalf("frame type = %v, want error", frame["type"])
	}
	if _, ok := frame["supported_types"]; !ok {
		t.Error("error frame missing supported_types")
	}
	if f.session.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", f.session.State())
	}
}

// TestSessionMalformedJSON verifies garbage input is a recoverable protocol
// error in both states.
func TestSessionMalformedJSON(t *testing.T) {
	f := newSessionFixture(t)

	f.session.HandleFrame(context.Background(), []byte(`{not json`))
	if frame := f.sink.last(t); frame["message"] != "Invalid JSON format" {
		t.Errorf("pre-auth message = %v", frame["message"])
	}
	if f.session.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", f.session.State())
	}

	f.authenticate(t)
	f.session.HandleFrame(context.Background(), []byte(`{not json`))
	if frame := f.sink.last(t); frame["message"] != "Invalid JSON format" {
		t.Errorf("post-auth message = %v", frame["message"])
	}
	if f.session.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", f.session.State())
	}
}

func TestSessionTestMessage(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"test_message","message":"echo me"}`))

	frame := f.sink.last(t)
	if frame["type"] != TypeTestResponse {
		t.Errorf("frame type = %v, want test_response", frame["type"])
	}
	if frame["original_message"] != "echo me" {
		t.Errorf("original_message = %v", frame["original_message"])
	}
}

func TestSessionConnectionTest(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	f.session.HandleFrame(context.Background(), []byte(`{"type":"connection_test"}`))

	frame := f.sink.last(t)
	if frame["type"] != TypeConnectionInfo {
		t.Errorf("frame type = %v, want connection_info", frame["type"])
	}
	if frame["group_name"] != "chat_test" {
		t.Errorf("group_name = %v", frame["group_name"])
	}
}

// TestSessionClose verifies teardown releases the group subscription and is
// idempotent, and later frames are ignored.
func TestSessionClose(t *testing.T) {
	f := newSessionFixture(t)
	f.authenticate(t)

	f.session.HandleClose(context.Background())
	if f.session.State() != StateClosed {
		t.Fatalf("state = %v, want closed", f.session.State())
	}
	if f.hub.MemberCount("chat_test") != 0 {
		t.Errorf("group members = %d after close", f.hub.MemberCount("chat_test"))
	}

	f.session.HandleClose(context.Background())

	sent := len(f.sink.frames)
	f.session.HandleFrame(context.Background(), []byte(`{"type":"ping"}`))
	if len(f.sink.frames) != sent {
		t.Error("closed session still responds to frames")
	}
}
