package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Br34th7aking/pingo/internal/infrastructure/token"
	accounts "github.com/Br34th7aking/pingo/internal/pkg/accounts/application/domain"
	userrepo "github.com/Br34th7aking/pingo/internal/pkg/accounts/persistence/repository/port"
)

const userContextKey = "pingo.current_user"

// RequireAuth verifies the Bearer token and loads the account into the
// request context. Requests without a valid token are rejected with 401
// before any handler runs.
func RequireAuth(verifier token.Verifier, users userrepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := verifier.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the account RequireAuth resolved for this request.
func CurrentUser(c *gin.Context) *accounts.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*accounts.User)
	if !ok {
		return nil
	}
	return user
}
