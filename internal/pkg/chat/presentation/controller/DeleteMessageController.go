package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// DeleteMessageController handles the message deletion endpoint only.
type DeleteMessageController struct {
	deleteUC *usecase.DeleteMessageUseCase
}

func NewDeleteMessageController(pool *pgxpool.Pool) *DeleteMessageController {
	chats := chatAdapter.NewPgChatRepository(pool)
	access := usecase.NewResolveChannelAccessUseCase(serverAdapter.NewPgServerRepository(pool), chats)
	return &DeleteMessageController{
		deleteUC: usecase.NewDeleteMessageUseCase(access, chats),
	}
}

// Handle tombstones a message; the row survives and readers see the
// redaction placeholder. Allowed for the author or a moderator and above.
func (ctl *DeleteMessageController) Handle() gin.HandlerFunc {
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

		if err := ctl.deleteUC.Execute(c.Request.Context(), usecase.DeleteMessageInput{
			ServerID:  serverID,
			ChannelID: channelID,
			MessageID: messageID,
			UserID:    user.ID,
		}); err != nil {
			replyError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
