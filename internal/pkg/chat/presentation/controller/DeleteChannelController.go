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

// DeleteChannelController handles the channel deletion endpoint only.
type DeleteChannelController struct {
	manageUC *usecase.ManageChannelUseCase
}

func NewDeleteChannelController(pool *pgxpool.Pool) *DeleteChannelController {
	return &DeleteChannelController{
		manageUC: usecase.NewManageChannelUseCase(
			serverAdapter.NewPgServerRepository(pool),
			chatAdapter.NewPgChatRepository(pool),
		),
	}
}

// Handle removes a channel and its messages; admin role or above required.
func (ctl *DeleteChannelController) Handle() gin.HandlerFunc {
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

		if err := ctl.manageUC.Delete(c.Request.Context(), serverID, channelID, user.ID); err != nil {
			replyError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
