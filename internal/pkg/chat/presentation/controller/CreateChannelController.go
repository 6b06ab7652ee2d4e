package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	chat "github.com/Br34th7aking/pingo/internal/pkg/chat/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// CreateChannelController handles the channel creation endpoint only.
type CreateChannelController struct {
	manageUC *usecase.ManageChannelUseCase
}

func NewCreateChannelController(pool *pgxpool.Pool) *CreateChannelController {
	return &CreateChannelController{
		manageUC: usecase.NewManageChannelUseCase(
			serverAdapter.NewPgServerRepository(pool),
			chatAdapter.NewPgChatRepository(pool),
		),
	}
}

// channelRequest is the DTO for channel create and update bodies. Role
// thresholds default to member when omitted.
type channelRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	MinView     *string `json:"min_view_role"`
	MinRead     *string `json:"min_read_role"`
	MinMessage  *string `json:"min_message_role"`
}

func (r *channelRequest) thresholds() (chat.Thresholds, error) {
	t := chat.Thresholds{
		MinView:    servers.RoleMember,
		MinRead:    servers.RoleMember,
		MinMessage: servers.RoleMember,
	}
	var err error
	if r.MinView != nil {
		if t.MinView, err = servers.ParseRole(*r.MinView); err != nil {
			return t, err
		}
	}
	if r.MinRead != nil {
		if t.MinRead, err = servers.ParseRole(*r.MinRead); err != nil {
			return t, err
		}
	}
	if r.MinMessage != nil {
		if t.MinMessage, err = servers.ParseRole(*r.MinMessage); err != nil {
			return t, err
		}
	}
	return t, nil
}

// Handle creates a channel on the server; admin role or above required.
func (ctl *CreateChannelController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID, ok := uuidParam(c, "serverId")
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

		created, err := ctl.manageUC.Create(c.Request.Context(), serverID, user.ID, chat.Channel{
			Name:        req.Name,
			Description: req.Description,
			Thresholds:  thresholds,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"channel": toChannelPayload(*created)})
	}
}
