package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Spectators only ever send get_state requests.
	maxMessageSize = 4 << 10

	// Outbound queue per spectator. A spectator that falls this far behind is dropped by the hub.
	sendQueueSize = 64
)

// originChecker returns a CheckOrigin func accepting the listed origins.
// An empty list or a "*" entry accepts any origin.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			allowed[o] = true
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients do not send Origin.
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		return allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
	}
}

// Client is a spectator connection to one game.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *ServerEnvelope

	GameID string

	// RateLimitKey is derived from the client IP when the socket is opened.
	RateLimitKey string

	// ctx lives as long as the connection; readPump cancels it on exit.
	ctx    context.Context
	cancel context.CancelFunc
}

func newClient(hub *Hub, conn *websocket.Conn, gameID, rateLimitKey string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan *ServerEnvelope, sendQueueSize),
		GameID:       gameID,
		RateLimitKey: rateLimitKey,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (c *Client) extendReadDeadline(string) error {
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// readPump decodes spectator requests until the peer goes away, then detaches the client.
func (c *Client) readPump() {
	defer func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.extendReadDeadline("")
	c.conn.SetPongHandler(c.extendReadDeadline)

	for {
		var msg ClientInMessage
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("spectator read failed", "game_id", c.GameID, "error", err)
			}
			return
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			sendErrorToClient(c, "invalid message")
			continue
		}
		if h := c.hub.handler(); h != nil {
			h.HandleClientMessage(c.ctx, c, &msg)
		}
	}
}

// writePump drains the send queue onto the socket and pings on an interval.
// It exits when the hub closes the queue or a write fails.
func (c *Client) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	defer c.conn.Close()

	write := func(fn func() error) bool {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return fn() == nil
	}

	for {
		select {
		case env, open := <-c.send:
			if !open {
				write(func() error {
					msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
					return c.conn.WriteMessage(websocket.CloseMessage, msg)
				})
				return
			}
			if !write(func() error { return c.conn.WriteJSON(env) }) {
				return
			}
		case <-ping.C:
			if !write(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) }) {
				return
			}
		}
	}
}

// sendEnvelopeToClient hands env to the hub, the only writer of c.send.
func sendEnvelopeToClient(c *Client, env *ServerEnvelope) {
	c.hub.SendTo(c, env)
}

func sendErrorToClient(c *Client, message string) {
	sendEnvelopeToClient(c, &ServerEnvelope{Type: ServerTypeError, Payload: map[string]any{"message": message}})
}
