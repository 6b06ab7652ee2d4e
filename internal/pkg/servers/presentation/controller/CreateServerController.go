package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
	repoAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
	serverrepo "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/port"
)

// CreateServerController handles the server creation endpoint only.
type CreateServerController struct {
	servers serverrepo.ServerRepository
}

func NewCreateServerController(pool *pgxpool.Pool) *CreateServerController {
	return &CreateServerController{servers: repoAdapter.NewPgServerRepository(pool)}
}

type createServerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// Handle creates a server owned by the current user. The owner membership and
// the default "general" channel are created in the same transaction.
func (ctl *CreateServerController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := accountsHTTP.CurrentUser(c)

		var req createServerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		visibility := servers.VisibilityPublic
		if req.Visibility != "" {
			visibility = servers.Visibility(req.Visibility)
			if visibility != servers.VisibilityPublic && visibility != servers.VisibilityPrivate {
				c.JSON(http.StatusBadRequest, gin.H{"error": "visibility must be public or private"})
				return
			}
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": servers.ErrInvalidServerInput.Error()})
			return
		}

		created, err := ctl.servers.CreateServer(c.Request.Context(), servers.Server{
			Name:        name,
			Description: req.Description,
			Visibility:  visibility,
			OwnerID:     user.ID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create server"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"server": gin.H{
				"id":          created.ID,
				"name":        created.Name,
				"description": created.Description,
				"visibility":  created.Visibility,
				"owner_id":    created.OwnerID,
				"created_at":  created.CreatedAt,
			},
		})
	}
}
