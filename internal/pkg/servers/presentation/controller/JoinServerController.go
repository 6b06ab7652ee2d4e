package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
	repoAdapter "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/adapter"
	serverrepo "github.com/Br34th7aking/pingo/internal/pkg/servers/persistence/repository/port"
)

// JoinServerController handles the membership creation endpoint only.
type JoinServerController struct {
	servers serverrepo.ServerRepository
}

func NewJoinServerController(pool *pgxpool.Pool) *JoinServerController {
	return &JoinServerController{servers: repoAdapter.NewPgServerRepository(pool)}
}

// Handle joins the current user to a public server as a member. Private
// servers require the invite code.
func (ctl *JoinServerController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID, err := uuid.Parse(c.Param("serverId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "serverId must be a valid UUID"})
			return
		}
		user := accountsHTTP.CurrentUser(c)

		server, err := ctl.servers.FindServer(c.Request.Context(), serverID)
		if errors.Is(err, servers.ErrServerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join server"})
			return
		}

		if server.Visibility == servers.VisibilityPrivate {
			code := c.Query("invite_code")
			if server.InviteCode == nil || code == "" || code != *server.InviteCode {
				c.JSON(http.StatusForbidden, gin.H{"error": "a valid invite code is required"})
				return
			}
		}

		err = ctl.servers.AddMember(c.Request.Context(), serverID, user.ID, servers.RoleMember)
		if errors.Is(err, servers.ErrDuplicateMember) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join server"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"membership": gin.H{
				"server_id": serverID,
				"user_id":   user.ID,
				"role":      servers.RoleMember.String(),
			},
		})
	}
}
