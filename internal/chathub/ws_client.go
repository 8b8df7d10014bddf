package chathub

import (
	"encoding/json"
	"log"
	"time"

	"servigo/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements the Client interface over a gorilla websocket
// connection.
type WebSocketClient struct {
	SessionID string
	UserID    uint
	Role      string
	Conn      *websocket.Conn
	Hub       *Hub
	Send      chan models.Event
}

func (c *WebSocketClient) GetSessionID() string                { return c.SessionID }
func (c *WebSocketClient) GetUserID() uint                     { return c.UserID }
func (c *WebSocketClient) GetRole() string                     { return c.Role }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. The read pump
// stops on its own once the connection is closed.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump reads room commands from the websocket and forwards them to the
// hub. It owns the connection's read deadline and pong handling.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var frame models.ClientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Error decoding frame from session %s: %v", c.SessionID, err)
			continue
		}

		c.Hub.ActionCh <- Action{Client: c, Frame: frame}
	}
}

// writePump drains the Send channel into the websocket and keeps the
// connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub; close the websocket.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding %s event for session %s: %v", event.Name, c.SessionID, err)
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Flush anything already queued behind this event.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, err := json.Marshal(next)
				if err != nil {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, extra); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
