package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	repoAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	"github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/controller"
)

// RegisterRoutes registers account endpoints under the given router group.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, tokens *token.JWT) {
	loginCtl := controller.NewLoginController(pool, tokens)
	privacyCtl := NewUpdateDMPrivacyController(pool)

	g.POST("/auth/login", loginCtl.Handle())

	authed := g.Group("", RequireAuth(tokens, repoAdapter.NewPgUserRepository(pool)))
	authed.PATCH("/me/dm-privacy", privacyCtl.Handle())
}
