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

// ListChannelsController handles the channel listing endpoint only.
type ListChannelsController struct {
	listUC *usecase.ListChannelsUseCase
}

func NewListChannelsController(pool *pgxpool.Pool) *ListChannelsController {
	return &ListChannelsController{
		listUC: usecase.NewListChannelsUseCase(
			serverAdapter.NewPgServerRepository(pool),
			chatAdapter.NewPgChatRepository(pool),
		),
	}
}

// Handle lists the server's channels the current member can view.
func (ctl *ListChannelsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID, ok := uuidParam(c, "serverId")
		if !ok {
			return
		}
		user := accountsHTTP.CurrentUser(c)

		channels, err := ctl.listUC.Execute(c.Request.Context(), serverID, user.ID)
		if err != nil {
			replyError(c, err)
			return
		}

		payload := make([]channelPayload, 0, len(channels))
		for _, ch := range channels {
			payload = append(payload, toChannelPayload(ch))
		}
		c.JSON(http.StatusOK, gin.H{"channels": payload})
	}
}
