package handler

import (
	"net/http"

	"servigo/backend/internal/chathub"
	"servigo/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates and upgrades the connection, then registers a
// new client session with the hub. Rooms are not restored server-side: the
// client re-joins its rooms after every (re)connect.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	user, err := h.userFromRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		SessionID: uuid.New().String(),
		UserID:    user.ID,
		Role:      user.Role,
		Conn:      conn,
		Hub:       h.Hub,
		Send:      make(chan models.Event, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
