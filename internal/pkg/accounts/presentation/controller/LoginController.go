package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	"github.com/Br34th7aking/pingo/internal/pkg/accounts/application/usecase"
	repoAdapter "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/adapter"
)

// LoginController handles the login endpoint only (one controller per endpoint)
type LoginController struct {
	authUC *usecase.AuthenticateUserUseCase
	issuer token.Issuer
}

func NewLoginController(pool *pgxpool.Pool, issuer token.Issuer) *LoginController {
	users := repoAdapter.NewPgUserRepository(pool)
	return &LoginController{
		authUC: usecase.NewAuthenticateUserUseCase(users),
		issuer: issuer,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handle verifies credentials and mints an access token for the session.
func (ctl *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := ctl.authUC.Execute(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}

		access, err := ctl.issuer.Issue(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access": access,
			"user":   user.Summary(),
		})
	}
}
