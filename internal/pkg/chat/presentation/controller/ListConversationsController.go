package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/Br34th7aking/pingo/internal/infrastructure/cache/port"
	accountsHTTP "github.com/Br34th7aking/pingo/internal/pkg/accounts/presentation/http"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/application/task"
	chatAdapter "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/adapter"
	chatrepo "github.com/Br34th7aking/pingo/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsController handles the conversation listing endpoint only.
type ListConversationsController struct {
	chats chatrepo.ChatRepository
	cache cport.Cache
}

func NewListConversationsController(pool *pgxpool.Pool, cache cport.Cache) *ListConversationsController {
	return &ListConversationsController{
		chats: chatAdapter.NewPgChatRepository(pool),
		cache: cache,
	}
}

// Handle lists the current user's conversations with their cached unread
// counts. A missing or unreachable cache reads as zero unread.
func (ctl *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := accountsHTTP.CurrentUser(c)

		convs, err := ctl.chats.ListConversations(c.Request.Context(), user.ID)
		if err != nil {
			replyError(c, err)
			return
		}

		payload := make([]gin.H, 0, len(convs))
		for i := range convs {
			other, _ := convs[i].OtherParticipant(user.ID)
			unread := 0
			if ctl.cache != nil {
				if raw, err := ctl.cache.Get(c.Request.Context(), task.UnreadKey(user.ID, convs[i].ID)); err == nil {
					unread, _ = strconv.Atoi(raw)
				}
			}
			payload = append(payload, gin.H{
				"id":         convs[i].ID,
				"with_user":  other,
				"created_at": convs[i].CreatedAt,
				"unread":     unread,
			})
		}
		c.JSON(http.StatusOK, gin.H{"conversations": payload})
	}
}
