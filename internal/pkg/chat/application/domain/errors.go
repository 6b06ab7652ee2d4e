package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrChannelNotFound      = errors.New("chat: channel not found in this server")
	ErrMessageNotFound      = errors.New("chat: message not found")
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrEmptyContent         = errors.New("chat: message content cannot be empty")
	ErrNotParticipant       = errors.New("chat: user is not a participant in the conversation")
	ErrSelfConversation     = errors.New("chat: cannot open a conversation with yourself")
	ErrDMNotAllowed         = errors.New("chat: recipient does not accept direct messages")
	ErrPostForbidden        = errors.New("chat: no permission to post messages in this channel")
	ErrViewForbidden        = errors.New("chat: no permission to view this channel")
	ErrReadForbidden        = errors.New("chat: no permission to read this channel")
	ErrNotAuthor            = errors.New("chat: only the author or a privileged member can modify this message")
	ErrDuplicateChannel     = errors.New("chat: channel name already exists in this server")
)
