package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/Br34th7aking/pingo/internal/infrastructure/cache/port"
	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/task"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
)

// GetDirectMessagesController handles the conversation history endpoint only.
type GetDirectMessagesController struct {
	historyUC *usecase.GetDirectMessagesUseCase
	users     userrepo.UserRepository
	cache     cport.Cache
}

func NewGetDirectMessagesController(pool *pgxpool.Pool, cache cport.Cache) *GetDirectMessagesController {
	return &GetDirectMessagesController{
		historyUC: usecase.NewGetDirectMessagesUseCase(chatAdapter.NewPgChatRepository(pool)),
		users:     userAdapter.NewPgUserRepository(pool),
		cache:     cache,
	}
}

// Handle returns a page of conversation history for a participant. Opening
// the history marks messages addressed to the reader as read and clears their
// unread counter.
func (ctl *GetDirectMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := uuidParam(c, "conversationId")
		if !ok {
			return
		}
		user := accountsHTTP.CurrentUser(c)
		limit, offset := pageParams(c)

		msgs, err := ctl.historyUC.Execute(c.Request.Context(), usecase.GetDirectMessagesInput{
			ConversationID: conversationID,
			UserID:         user.ID,
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		if ctl.cache != nil {
			// Counter is advisory; a failed delete self-corrects on next read.
			_, _ = ctl.cache.Del(c.Request.Context(), task.UnreadKey(user.ID, conversationID))
		}

		ids := make([]*uuid.UUID, 0, len(msgs))
		for i := range msgs {
			ids = append(ids, msgs[i].SenderID)
		}
		senders := summaryIndex(c.Request.Context(), ctl.users, ids)

		payload := make([]chat.DirectMessagePayload, 0, len(msgs))
		for i := range msgs {
			var sender *accounts.Summary
			if msgs[i].SenderID != nil {
				sender = senders[*msgs[i].SenderID]
			}
			payload = append(payload, msgs[i].Payload(sender))
		}
		c.JSON(http.StatusOK, gin.H{"messages": payload})
	}
}
