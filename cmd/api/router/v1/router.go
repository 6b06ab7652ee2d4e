package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/Br34th7aking/pingo/internal/infrastructure/cache/port"
	qport "github.com/Br34th7aking/pingo/internal/infrastructure/queue/port"
	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	chatHTTP "github.com/Br34th7aking/pingo/internal/pkg/chat/presentation/http"
	serversHTTP "github.com/Br34th7aking/pingo/internal/pkg/servers/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, tokens *token.JWT, groups realtime.Broadcaster, queue qport.Client, cache cport.Cache, logger *slog.Logger) {
	v1 := r.Group("/api/v1")

	accountsHTTP.RegisterRoutes(v1, pool, tokens)
	serversHTTP.RegisterRoutes(v1, pool, tokens)
	chatHTTP.RegisterRoutes(v1, pool, tokens, groups, queue, cache, logger)
}
