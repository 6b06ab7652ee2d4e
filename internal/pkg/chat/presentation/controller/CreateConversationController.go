package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	userAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
)

// CreateConversationController handles the conversation opening endpoint only.
type CreateConversationController struct {
	createUC *usecase.CreateConversationUseCase
}

func NewCreateConversationController(pool *pgxpool.Pool) *CreateConversationController {
	return &CreateConversationController{
		createUC: usecase.NewCreateConversationUseCase(
			chatAdapter.NewPgChatRepository(pool),
			userAdapter.NewPgUserRepository(pool),
		),
	}
}

type createConversationRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Handle opens the conversation with another user, or returns the existing
// one. The recipient's DM privacy gates creation; 200 vs 201 tells the caller
// which happened.
func (ctl *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := accountsHTTP.CurrentUser(c)

		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		conv, created, err := ctl.createUC.Execute(c.Request.Context(), user.ID, req.UserID)
		if err != nil {
			replyError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		other, _ := conv.OtherParticipant(user.ID)
		c.JSON(status, gin.H{
			"conversation": gin.H{
				"id":         conv.ID,
				"with_user":  other,
				"created_at": conv.CreatedAt,
			},
		})
	}
}
