package controller

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/Br34th7aking/pingo/internal/infrastructure/queue/port"
	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/presentation/gateway"
)

// DirectSocketController handles the websocket endpoint for direct message
// conversations.
type DirectSocketController struct {
	verifier token.Verifier
	groups   realtime.Broadcaster
	queue    qport.Client
	logger   *slog.Logger

	chats  *chatAdapter.PgChatRepository
	users  *userAdapter.PgUserRepository
	sendUC *usecase.SendDirectMessageUseCase
}

func NewDirectSocketController(pool *pgxpool.Pool, verifier token.Verifier, groups realtime.Broadcaster, queue qport.Client, logger *slog.Logger) *DirectSocketController {
	chats := chatAdapter.NewPgChatRepository(pool)
	users := userAdapter.NewPgUserRepository(pool)
	return &DirectSocketController{
		verifier: verifier,
		groups:   groups,
		queue:    queue,
		logger:   logger,
		chats:    chats,
		users:    users,
		sendUC:   usecase.NewSendDirectMessageUseCase(chats, users),
	}
}

// Handle upgrades the connection and drives the session protocol until the
// client disconnects.
func (ctl *DirectSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := uuidParam(c, "conversationId")
		if !ok {
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()

		binding := &gateway.DirectBinding{
			ConversationID: conversationID,
			Chats:          ctl.chats,
			Send:           ctl.sendUC,
			Queue:          ctl.queue,
			Logger:         ctl.logger,
		}
		session := gateway.NewSession(binding, ctl.verifier, ctl.users, ctl.groups, conn, ctl.logger)

		runSession(c, session, conn, ws)
	}
}
