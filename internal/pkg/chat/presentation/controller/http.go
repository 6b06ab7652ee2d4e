package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

// replyError maps domain errors onto HTTP statuses. Unknown errors become an
// opaque 500 so persistence details never reach clients.
func replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, servers.ErrServerNotFound),
		errors.Is(err, chat.ErrChannelNotFound),
		errors.Is(err, chat.ErrMessageNotFound),
		errors.Is(err, chat.ErrConversationNotFound),
		errors.Is(err, accounts.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, servers.ErrNotAMember),
		errors.Is(err, chat.ErrViewForbidden),
		errors.Is(err, chat.ErrReadForbidden),
		errors.Is(err, chat.ErrPostForbidden),
		errors.Is(err, chat.ErrNotParticipant),
		errors.Is(err, chat.ErrNotAuthor),
		errors.Is(err, chat.ErrDMNotAllowed),
		errors.Is(err, usecase.ErrChannelAdminRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrEmptyContent),
		errors.Is(err, chat.ErrSelfConversation),
		errors.Is(err, chat.ErrDuplicateChannel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pageParams reads limit/offset query parameters with repository defaults for
// anything absent or malformed.
func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// summaryIndex resolves author summaries for a set of user ids, deduplicated.
// Vanished accounts map to nil so payloads show an absent author instead of
// failing the whole page.
func summaryIndex(ctx context.Context, users userrepo.UserRepository, ids []*uuid.UUID) map[uuid.UUID]*accounts.Summary {
	index := make(map[uuid.UUID]*accounts.Summary)
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, seen := index[*id]; seen {
			continue
		}
		user, err := users.FindByID(ctx, *id)
		if err != nil {
			index[*id] = nil
			continue
		}
		s := user.Summary()
		index[*id] = &s
	}
	return index
}

// channelPayload is the HTTP projection of a channel.
type channelPayload struct {
	ID          uuid.UUID `json:"id"`
	ServerID    uuid.UUID `json:"server_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	MinView     string    `json:"min_view_role"`
	MinRead     string    `json:"min_read_role"`
	MinMessage  string    `json:"min_message_role"`
}

func toChannelPayload(c chat.Channel) channelPayload {
	return channelPayload{
		ID:          c.ID,
		ServerID:    c.ServerID,
		Name:        c.Name,
		Description: c.Description,
		MinView:     c.Thresholds.MinView.String(),
		MinRead:     c.Thresholds.MinRead.String(),
		MinMessage:  c.Thresholds.MinMessage.String(),
	}
}
