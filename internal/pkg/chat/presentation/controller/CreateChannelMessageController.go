package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/presentation/gateway"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// CreateChannelMessageController handles the HTTP message posting endpoint
// only. Messages posted here reach open websocket sessions through the same
// group broadcast as in-band posts.
type CreateChannelMessageController struct {
	sendUC *usecase.SendChannelMessageUseCase
	groups realtime.Broadcaster
}

func NewCreateChannelMessageController(pool *pgxpool.Pool, groups realtime.Broadcaster) *CreateChannelMessageController {
	chats := chatAdapter.NewPgChatRepository(pool)
	access := usecase.NewResolveChannelAccessUseCase(serverAdapter.NewPgServerRepository(pool), chats)
	return &CreateChannelMessageController{
		sendUC: usecase.NewSendChannelMessageUseCase(access, chats),
		groups: groups,
	}
}

type createMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handle persists the message and then broadcasts it; a failed broadcast is
// not surfaced since the message is already stored.
func (ctl *CreateChannelMessageController) Handle() gin.HandlerFunc {
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

		var req createMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := ctl.sendUC.Execute(c.Request.Context(), usecase.SendChannelMessageInput{
			ServerID:  serverID,
			ChannelID: channelID,
			AuthorID:  user.ID,
			Content:   req.Content,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		author := user.Summary()
		payload := msg.Payload(&author)

		envelope := gateway.ChatMessageEnvelope(payload)
		_ = ctl.groups.Publish(c.Request.Context(), gateway.ChannelGroup(serverID, channelID), envelope)

		c.JSON(http.StatusCreated, gin.H{"message": payload})
	}
}
