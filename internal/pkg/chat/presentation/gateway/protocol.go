package gateway

import (
	"encoding/json"
	"time"

	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
)

// CloseAuthFailure is the websocket close code for every handshake failure,
// distinguishable from normal transport closes.
const CloseAuthFailure = 4001

// Inbound message types.
const (
	TypeAuth           = "auth"
	TypePing           = "ping"
	TypeChatMessage    = "chat_message"
	TypeDirectMessage  = "direct_message"
	TypeTestMessage    = "test_message"
	TypeConnectionTest = "connection_test"
)

// Outbound message types.
const (
	TypeAuthRequired   = "auth_required"
	TypeAuthSuccess    = "auth_success"
	TypeAuthError      = "auth_error"
	TypePong           = "pong"
	TypeTestResponse   = "test_response"
	TypeConnectionInfo = "connection_info"
	TypeError          = "error"
)

// Sink is the transport half a session writes to. realtime.Connection
// satisfies it; tests substitute an in-memory fake. Deliver is the broadcast
// fan-in path and bypasses the session entirely.
type Sink interface {
	realtime.Subscriber
	Send(payload []byte) error
	Close(code int, reason string)
}

// inboundFrame is the superset of fields a client may send; Type picks the
// handler and the rest are read per type.
type inboundFrame struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// authTokenFormat is echoed in greetings and protocol errors so clients know
// what the handshake expects.
var authTokenFormat = map[string]string{
	"type":  TypeAuth,
	"token": "your_jwt_access_token_here",
}

func marshalFrame(fields map[string]any) []byte {
	payload, err := json.Marshal(fields)
	if err != nil {
		// Frames are built from plain maps and marshal cannot fail; keep the
		// connection alive with an empty error object if it somehow does.
		return []byte(`{"type":"error","message":"internal serialization error"}`)
	}
	return payload
}

// ChatMessageEnvelope wraps a stored channel message in the frame every group
// member receives.
func ChatMessageEnvelope(msg chat.MessagePayload) []byte {
	return marshalFrame(map[string]any{
		"type":    TypeChatMessage,
		"message": msg,
	})
}

// DirectMessageEnvelope wraps a stored direct message in the frame both
// conversation participants receive.
func DirectMessageEnvelope(msg chat.DirectMessagePayload) []byte {
	return marshalFrame(map[string]any{
		"type":    TypeDirectMessage,
		"message": msg,
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
