package controller

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/presentation/gateway"
	serverAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
)

// ChannelSocketController handles the websocket endpoint for channel chat.
type ChannelSocketController struct {
	verifier token.Verifier
	groups   realtime.Broadcaster
	logger   *slog.Logger

	accessUC *usecase.ResolveChannelAccessUseCase
	sendUC   *usecase.SendChannelMessageUseCase
	users    *userAdapter.PgUserRepository
}

func NewChannelSocketController(pool *pgxpool.Pool, verifier token.Verifier, groups realtime.Broadcaster, logger *slog.Logger) *ChannelSocketController {
	chats := chatAdapter.NewPgChatRepository(pool)
	srvs := serverAdapter.NewPgServerRepository(pool)
	access := usecase.NewResolveChannelAccessUseCase(srvs, chats)
	return &ChannelSocketController{
		verifier: verifier,
		groups:   groups,
		logger:   logger,
		accessUC: access,
		sendUC:   usecase.NewSendChannelMessageUseCase(access, chats),
		users:    userAdapter.NewPgUserRepository(pool),
	}
}

// Handle upgrades the connection and drives the session protocol until the
// client disconnects. Route identifiers are validated before the upgrade;
// everything else, auth included, happens in-band.
func (ctl *ChannelSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID, ok := uuidParam(c, "serverId")
		if !ok {
			return
		}
		channelID, ok := uuidParam(c, "channelId")
		if !ok {
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()

		binding := &gateway.ChannelBinding{
			ServerID:  serverID,
			ChannelID: channelID,
			Access:    ctl.accessUC,
			Send:      ctl.sendUC,
		}
		session := gateway.NewSession(binding, ctl.verifier, ctl.users, ctl.groups, conn, ctl.logger)

		runSession(c, session, conn, ws)
	}
}
