package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// UpdateChannelController handles the channel update endpoint only.
type UpdateChannelController struct {
	manageUC *usecase.ManageChannelUseCase
}

func NewUpdateChannelController(pool *pgxpool.Pool) *UpdateChannelController {
	return &UpdateChannelController{
		manageUC: usecase.NewManageChannelUseCase(
			serverAdapter.NewPgServerRepository(pool),
			chatAdapter.NewPgChatRepository(pool),
		),
	}
}

// Handle rewrites a channel's name, description and thresholds; admin role or
// above required. Raised thresholds take effect on the next permission check
// of every open session.
func (ctl *UpdateChannelController) Handle() gin.HandlerFunc {
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

		var req channelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		thresholds, err := req.thresholds()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := ctl.manageUC.Update(c.Request.Context(), serverID, user.ID, chat.Channel{
			ID:          channelID,
			Name:        req.Name,
			Description: req.Description,
			Thresholds:  thresholds,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"channel": toChannelPayload(*updated)})
	}
}
