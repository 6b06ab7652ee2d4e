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
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// EditMessageController handles the message edit endpoint only.
type EditMessageController struct {
	editUC *usecase.EditMessageUseCase
	users  userrepo.UserRepository
}

func NewEditMessageController(pool *pgxpool.Pool) *EditMessageController {
	chats := chatAdapter.NewPgChatRepository(pool)
	access := usecase.NewResolveChannelAccessUseCase(serverAdapter.NewPgServerRepository(pool), chats)
	return &EditMessageController{
		editUC: usecase.NewEditMessageUseCase(access, chats),
		users:  userAdapter.NewPgUserRepository(pool),
	}
}

// Handle rewrites a message's content; allowed for the author or a
// moderator and above.
func (ctl *EditMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID, ok := uuidParam(c, "serverId")
		if !ok {
			return
		}
		channelID, ok := uuidParam(c, "channelId")
		if !ok {
			return
		}
		messageID, ok := uuidParam(c, "messageId")
		if !ok {
			return
		}
		user := accountsHTTP.CurrentUser(c)

		var req createMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := ctl.editUC.Execute(c.Request.Context(), usecase.EditMessageInput{
			ServerID:  serverID,
			ChannelID: channelID,
			MessageID: messageID,
			UserID:    user.ID,
			Content:   req.Content,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		// The editor may be a moderator; the payload names the original author.
		authors := summaryIndex(c.Request.Context(), ctl.users, []*uuid.UUID{msg.AuthorID})
		var author *accounts.Summary
		if msg.AuthorID != nil {
			author = authors[*msg.AuthorID]
		}
		c.JSON(http.StatusOK, gin.H{"message": msg.Payload(author)})
	}
}
