package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/Br34th7aking/pingo/internal/infrastructure/cache/port"
	qport "github.com/Br34th7aking/pingo/internal/infrastructure/queue/port"
	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat HTTP and websocket endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes. The websocket endpoints skip the auth middleware; their
// handshake happens in-band after the upgrade.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, tokens *token.JWT, groups realtime.Broadcaster, queue qport.Client, cache cport.Cache, logger *slog.Logger) {
	listChannelsCtl := controller.NewListChannelsController(pool)
	createChannelCtl := controller.NewCreateChannelController(pool)
	updateChannelCtl := controller.NewUpdateChannelController(pool)
	deleteChannelCtl := controller.NewDeleteChannelController(pool)
	listMessagesCtl := controller.NewGetChannelMessagesController(pool)
	createMessageCtl := controller.NewCreateChannelMessageController(pool, groups)
	editMessageCtl := controller.NewEditMessageController(pool)
	deleteMessageCtl := controller.NewDeleteMessageController(pool)
	createConvCtl := controller.NewCreateConversationController(pool)
	listConvsCtl := controller.NewListConversationsController(pool, cache)
	convHistoryCtl := controller.NewGetDirectMessagesController(pool, cache)

	channelSocketCtl := controller.NewChannelSocketController(pool, tokens, groups, logger)
	directSocketCtl := controller.NewDirectSocketController(pool, tokens, groups, queue, logger)

	authed := g.Group("", accountsHTTP.RequireAuth(tokens, userAdapter.NewPgUserRepository(pool)))

	authed.GET("/servers/:serverId/channels", listChannelsCtl.Handle())
	authed.POST("/servers/:serverId/channels", createChannelCtl.Handle())
	authed.PATCH("/servers/:serverId/channels/:channelId", updateChannelCtl.Handle())
	authed.DELETE("/servers/:serverId/channels/:channelId", deleteChannelCtl.Handle())

	authed.GET("/servers/:serverId/channels/:channelId/messages", listMessagesCtl.Handle())
	authed.POST("/servers/:serverId/channels/:channelId/messages", createMessageCtl.Handle())
	authed.PATCH("/servers/:serverId/channels/:channelId/messages/:messageId", editMessageCtl.Handle())
	authed.DELETE("/servers/:serverId/channels/:channelId/messages/:messageId", deleteMessageCtl.Handle())

	authed.POST("/conversations", createConvCtl.Handle())
	authed.GET("/conversations", listConvsCtl.Handle())
	authed.GET("/conversations/:conversationId/messages", convHistoryCtl.Handle())

	// Distinct prefixes; gin's router cannot mix a static segment with a
	// param at the same position.
	g.GET("/ws/chat/:serverId/:channelId", channelSocketCtl.Handle())
	g.GET("/ws/dm/:conversationId", directSocketCtl.Handle())
}
