package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Br34th7aking/pingo/internal/infrastructure/realtime"
	"github.com/Br34th7aking/pingo/internal/pkg/chat/presentation/gateway"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens in-band after the upgrade, not via cookies, so
		// cross-origin upgrades carry no ambient credentials.
		return true
	},
}

const socketReadTimeout = 60 * time.Second

// runSession drives one websocket session to completion: greeting, serial
// frame dispatch, teardown. It returns when the client disconnects or the
// session closes the connection.
func runSession(c *gin.Context, session *gateway.Session, conn *realtime.Connection, ws *websocket.Conn) {
	ctx := c.Request.Context()
	defer func() {
		session.HandleClose(ctx)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	ws.SetReadLimit(1 << 20)
	_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
	})

	session.HandleOpen()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))

		session.HandleFrame(ctx, data)
		if conn.Closed() {
			return
		}
	}
}

// uuidParam reads a UUID path parameter, replying 400 on garbage so bad
// routes are rejected before any upgrade or query.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}
