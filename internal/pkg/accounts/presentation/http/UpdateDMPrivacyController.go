package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	repoAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
)

// UpdateDMPrivacyController handles the DM privacy setting endpoint only.
type UpdateDMPrivacyController struct {
	users userrepo.UserRepository
}

func NewUpdateDMPrivacyController(pool *pgxpool.Pool) *UpdateDMPrivacyController {
	return &UpdateDMPrivacyController{users: repoAdapter.NewPgUserRepository(pool)}
}

type updateDMPrivacyRequest struct {
	AllowDMsFrom string `json:"allow_dms_from" binding:"required"`
}

// Handle updates who may open conversations with the current user. The change
// takes effect on the next send; open sockets are not torn down.
func (ctl *UpdateDMPrivacyController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req updateDMPrivacyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		privacy := accounts.DMPrivacy(req.AllowDMsFrom)
		switch privacy {
		case accounts.DMPrivacyEveryone, accounts.DMPrivacyFriends, accounts.DMPrivacyNone:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "allow_dms_from must be one of everyone, friends, none"})
			return
		}

		if err := ctl.users.UpdateDMPrivacy(c.Request.Context(), user.ID, privacy); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update privacy setting"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"allow_dms_from": privacy})
	}
}
