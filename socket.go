package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	maxMessageSize = 4096
	sendBuffer     = 8
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`                // "search", "add" or "remove"
	Query    string `json:"query,omitempty"`     // search text
	PlayerID int    `json:"player_id,omitempty"` // catalog id for add/remove
}

// Sent to clients whenever a container's content changes
type FragmentMessage struct {
	Type  string `json:"type"`  // "catalog" or "watchlist"
	HTML  string `json:"html"`  // full replacement content for the container
	Count int    `json:"count"` // number of players rendered
}

type Client struct {
	conn  *websocket.Conn
	send  chan any
	query string // last search, only touched by the hub loop
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocket handler that picks the hub based on :id
func serveSocket(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		hub, ok := sm.getHub(ps.ByName("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade for %s: %v", hub.id, err)
			return
		}

		client := &Client{
			conn:  conn,
			send:  make(chan any, sendBuffer),
			query: r.URL.Query().Get("q"),
		}

		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		logf(cfg, "SERVE: Websocket for session %s to %s", hub.id, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		req := request{client: c, playerID: msg.PlayerID, query: msg.Query}

		switch msg.Type {
		case "search":
			req.kind = actionSearch
		case "add":
			req.kind = actionAdd
		case "remove":
			req.kind = actionRemove
		default:
			continue
		}

		if !h.post(req) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
