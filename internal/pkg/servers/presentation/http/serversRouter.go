package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	"github.com/Br34th7aking/pingo/internal/pkg/servers/presentation/controller"
)

// RegisterRoutes registers server endpoints under the given router group.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, tokens *token.JWT) {
	createCtl := controller.NewCreateServerController(pool)
	joinCtl := controller.NewJoinServerController(pool)

	authed := g.Group("", accountsHTTP.RequireAuth(tokens, userAdapter.NewPgUserRepository(pool)))
	authed.POST("/servers", createCtl.Handle())
	authed.POST("/servers/:serverId/members", joinCtl.Handle())
}
