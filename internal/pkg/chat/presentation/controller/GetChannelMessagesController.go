package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// GetChannelMessagesController handles the channel history endpoint only.
type GetChannelMessagesController struct {
	historyUC *usecase.GetChannelMessagesUseCase
	users     userrepo.UserRepository
}

func NewGetChannelMessagesController(pool *pgxpool.Pool) *GetChannelMessagesController {
	chats := chatAdapter.NewPgChatRepository(pool)
	access := usecase.NewResolveChannelAccessUseCase(serverAdapter.NewPgServerRepository(pool), chats)
	return &GetChannelMessagesController{
		historyUC: usecase.NewGetChannelMessagesUseCase(access, chats),
		users:     userAdapter.NewPgUserRepository(pool),
	}
}

// Handle returns a page of channel history, newest first. Tombstoned messages
// appear with redacted content.
func (ctl *GetChannelMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID, ok := uuidParam(c, "serverId")
		if !ok {
			return
		}
		channelID, ok := uuidParam(c, "channelId")
		if !ok {
			return
		}
		user := accountsHTTP.CurrentUser(c)
		limit, offset := pageParams(c)

		msgs, err := ctl.historyUC.Execute(c.Request.Context(), usecase.GetChannelMessagesInput{
			ServerID:  serverID,
			ChannelID: channelID,
			UserID:    user.ID,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		ids := make([]*uuid.UUID, 0, len(msgs))
		for i := range msgs {
			ids = append(ids, msgs[i].AuthorID)
		}
		authors := summaryIndex(c.Request.Context(), ctl.users, ids)

		payload := make([]chat.MessagePayload, 0, len(msgs))
		for i := range msgs {
			var author *accounts.Summary
			if msgs[i].AuthorID != nil {
				author = authors[*msgs[i].AuthorID]
			}
			payload = append(payload, msgs[i].Payload(author))
		}
		c.JSON(http.StatusOK, gin.H{"messages": payload})
	}
}
