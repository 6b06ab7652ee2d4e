package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// State is the session lifecycle position. Transitions are one-way:
// Unauthenticated -> Authenticated -> Closed, with Unauthenticated -> Closed
// on handshake failure or disconnect.
type State int8

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateClosed
)

// Grant is everything a successful handshake resolved: the user, the group
// key the session subscribed to, and the resource context echoed back in
// auth_success and connection_info frames.
type Grant struct {
	User        *accounts.User
	Group       string
	Resource    map[string]any
	Membership  map[string]any
	Permissions *chat.Capabilities
}

// Binding is the resource-specific half of a session: channel and direct
// conversation sessions share the state machine and differ only here.
type Binding interface {
	// Kind is the inbound message type that posts into this resource.
	Kind() string

	// Describe returns the route identifiers echoed in the greeting.
	Describe() map[string]any

	// Authorize resolves the resource for the authenticated user. Returned
	// errors are terminal handshake failures.
	Authorize(ctx context.Context, user *accounts.User) (*Grant, error)

	// Post re-checks the caller's current posting permission, persists
	// content and returns the broadcast envelope. It is called fresh for
	// every message; nothing from Authorize is trusted here.
	Post(ctx context.Context, user *accounts.User, content string) ([]byte, error)
}

// Session drives the gateway protocol for one connection. It is not safe for
// concurrent use and is only ever driven by its connection's read loop, so it
// needs no locking; broadcast delivery bypasses it via the Sink.
type Session struct {
	binding  Binding
	verifier token.Verifier
	users    userrepo.UserRepository
	groups   realtime.Broadcaster
	sink     Sink
	logger   *slog.Logger

	state State
	grant *Grant
}

// NewSession constructs a session in the Unauthenticated state.
func NewSession(binding Binding, verifier token.Verifier, users userrepo.UserRepository, groups realtime.Broadcaster, sink Sink, logger *slog.Logger) *Session {
	return &Session{
		binding:  binding,
		verifier: verifier,
		users:    users,
		groups:   groups,
		sink:     sink,
		logger:   logger,
	}
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	return s.state
}

// HandleOpen greets the client and asks for credentials.
func (s *Session) HandleOpen() {
	greeting := map[string]any{
		"type":            TypeAuthRequired,
		"message":         "Authentication required. Please send your access token.",
		"expected_format": authTokenFormat,
	}
	for k, v := range s.binding.Describe() {
		greeting[k] = v
	}
	s.send(greeting)
}

// HandleFrame processes one inbound frame to completion. The caller
// guarantees frames of a single connection arrive here serially.
func (s *Session) HandleFrame(ctx context.Context, data []byte) {
	if s.state == StateClosed {
		return
	}

	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.sendError("Invalid JSON format", nil)
		return
	}

	if s.state == StateUnauthenticated {
		if frame.Type == TypeAuth {
			s.authenticate(ctx, frame.Token)
			return
		}
		s.sendError("Authentication required. Send auth message first.", map[string]any{
			"expected_format": authTokenFormat,
		})
		return
	}

	switch frame.Type {
	case TypePing:
		s.handlePing()
	case s.binding.Kind():
		s.handlePost(ctx, frame.Content)
	case TypeTestMessage:
		s.handleTestMessage(frame.Message)
	case TypeConnectionTest:
		s.handleConnectionTest()
	default:
		s.sendError("Unknown message type: "+frame.Type, map[string]any{
			"supported_types": s.supportedTypes(),
		})
	}
}

// HandleClose releases the group subscription. Safe to call at any state and
// more than once; unsubscribing an absent handle is a no-op by contract.
func (s *Session) HandleClose(ctx context.Context) {
	if s.state == StateAuthenticated && s.grant != nil {
		if err := s.groups.Unsubscribe(ctx, s.grant.Group, s.sink); err != nil {
			s.logger.Error("group unsubscribe failed",
				slog.String("group", s.grant.Group), slog.Any("error", err))
		}
	}
	s.state = StateClosed
}

// authenticate runs the handshake pipeline: token -> user -> resource ->
// permissions -> group subscription. Every failure is terminal and closes
// the connection with the auth-failure code after a structured error frame.
func (s *Session) authenticate(ctx context.Context, tokenString string) {
	if tokenString == "" {
		s.failAuth(ctx, "No token provided")
		return
	}

	userID, err := s.verifier.Verify(tokenString)
	if err != nil {
		s.failAuth(ctx, "Invalid or expired token")
		return
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, accounts.ErrUserNotFound) {
		s.failAuth(ctx, "User not found")
		return
	}
	if err != nil {
		s.logger.Error("handshake user lookup failed", slog.Any("error", err))
		s.failAuth(ctx, "Server error during authentication")
		return
	}

	grant, err := s.binding.Authorize(ctx, user)
	if err != nil {
		s.failAuth(ctx, authFailureMessage(err))
		return
	}

	if err := s.groups.Subscribe(ctx, grant.Group, s.sink); err != nil {
		s.logger.Error("group subscribe failed",
			slog.String("group", grant.Group), slog.Any("error", err))
		s.failAuth(ctx, "Server error during authentication")
		return
	}

	s.grant = grant
	s.state = StateAuthenticated

	success := map[string]any{
		"type":       TypeAuthSuccess,
		"message":    "Successfully authenticated",
		"user":       user.Summary(),
		"group_name": grant.Group,
	}
	for k, v := range grant.Resource {
		success[k] = v
	}
	if grant.Membership != nil {
		success["membership"] = grant.Membership
	}
	if grant.Permissions != nil {
		success["permissions"] = grant.Permissions
	}
	s.send(success)
}

func (s *Session) failAuth(ctx context.Context, message string) {
	s.send(map[string]any{
		"type":    TypeAuthError,
		"message": message,
	})
	s.sink.Close(CloseAuthFailure, "authentication failure")
	s.HandleClose(ctx)
}

func (s *Session) handlePing() {
	s.send(map[string]any{
		"type":      TypePong,
		"message":   "Server received your ping!",
		"timestamp": timestamp(),
	})
}

// handlePost validates, persists and broadcasts one message. The broadcast
// happens only after the persistence call returned the stored record;
// failures are reported to the sender alone and never fan out.
func (s *Session) handlePost(ctx context.Context, content string) {
	envelope, err := s.binding.Post(ctx, s.grant.User, content)
	if err != nil {
		s.sendError(postFailureMessage(err), nil)
		return
	}

	if err := s.groups.Publish(ctx, s.grant.Group, envelope); err != nil {
		s.logger.Error("group publish failed",
			slog.String("group", s.grant.Group), slog.Any("error", err))
		s.sendError("Failed to deliver message", nil)
	}
}

func (s *Session) handleTestMessage(original string) {
	reply := map[string]any{
		"type":             TypeTestResponse,
		"original_message": original,
		"server_response":  "Message received successfully!",
		"user":             s.grant.User.Summary(),
		"timestamp":        timestamp(),
	}
	for k, v := range s.grant.Resource {
		reply[k] = v
	}
	s.send(reply)
}

func (s *Session) handleConnectionTest() {
	info := map[string]any{
		"type":       TypeConnectionInfo,
		"status":     "connected",
		"user":       s.grant.User.Summary(),
		"group_name": s.grant.Group,
		"timestamp":  timestamp(),
	}
	for k, v := range s.grant.Resource {
		info[k] = v
	}
	if s.grant.Membership != nil {
		info["membership"] = s.grant.Membership
	}
	if s.grant.Permissions != nil {
		info["permissions"] = s.grant.Permissions
	}
	s.send(info)
}

func (s *Session) supportedTypes() []string {
	return []string{TypePing, s.binding.Kind(), TypeTestMessage, TypeConnectionTest}
}

func (s *Session) send(fields map[string]any) {
	if err := s.sink.Send(marshalFrame(fields)); err != nil {
		s.logger.Debug("send on closing connection", slog.Any("error", err))
	}
}

func (s *Session) sendError(message string, extra map[string]any) {
	fields := map[string]any{
		"type":    TypeError,
		"message": message,
	}
	for k, v := range extra {
		fields[k] = v
	}
	s.send(fields)
}

// authFailureMessage maps Authorize errors to client-facing handshake
// failures without leaking internals.
func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, servers.ErrServerNotFound):
		return "Server not found"
	case errors.Is(err, servers.ErrNotAMember):
		return "You are not a member of this server"
	case errors.Is(err, chat.ErrChannelNotFound):
		return "Channel not found in this server"
	case errors.Is(err, chat.ErrViewForbidden):
		return "You do not have permission to view this channel"
	case errors.Is(err, chat.ErrConversationNotFound):
		return "Conversation not found"
	case errors.Is(err, chat.ErrNotParticipant):
		return "You are not a participant in this conversation"
	default:
		return "Server error during authentication"
	}
}

// postFailureMessage maps Post errors to recoverable protocol errors.
func postFailureMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyContent):
		return "Message content cannot be empty"
	case errors.Is(err, chat.ErrPostForbidden):
		return "You do not have permission to post messages in this channel"
	case errors.Is(err, chat.ErrDMNotAllowed):
		return "Recipient does not accept direct messages"
	case errors.Is(err, chat.ErrNotParticipant):
		return "You are not a participant in this conversation"
	case errors.Is(err, usecase.ErrPersistence):
		return "Failed to send message"
	default:
		return "Failed to send message"
	}
}
