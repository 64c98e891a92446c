package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Outbound queue length per client
	sendBuffer = 64
)

// createUpgrader creates a WebSocket upgrader with origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.isValidOrigin,
	}
}

// WebSocketClient pumps one socket: events out, client messages in
type WebSocketClient struct {
	id     string
	conn   *websocket.Conn
	out    *Connection
	logger *HTTPLogger
}

// readPump decodes client messages and hands them to handle until the
// socket fails or closes
func (c *WebSocketClient) readPump(handle func(ports.ClientMessage) error) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket connection error on %s: %v", c.id, err)
			}
			return
		}

		var msg ports.ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Debug("Ignoring malformed message from %s: %v", c.id, err)
			continue
		}

		if err := handle(msg); err != nil {
			c.logger.Debug("Message %q from %s rejected: %v", msg.Type, c.id, err)
		}
	}
}

// writePump writes queued events and keeps the socket alive with pings
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.out.Events():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
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

// BroadcastReload tells every open page to reload
func (s *Server) BroadcastReload(path string) {
	event := ports.UpdateEvent{
		Type:      ports.EventTypeReload,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"file":    path,
			"message": "Content updated",
		},
	}
	if err := s.NotifyClients(event); err != nil {
		s.logger.Debug("Reload not broadcast: %v", err)
	}
}

// isValidOrigin validates WebSocket connection origins based on environment
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// same-origin requests from non-browser clients
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid origin %q: %v", origin, err)
		return false
	}

	if originURL.Host == r.Host {
		return true
	}

	if s.config.IsDevelopment() {
		return isDevelopmentOrigin(originURL)
	}

	return s.isProductionOrigin(originURL)
}

// isDevelopmentOrigin accepts loopback and private network hosts
func isDevelopmentOrigin(originURL *url.URL) bool {
	hostname := originURL.Hostname()

	switch hostname {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}

	return strings.HasPrefix(hostname, "192.168.") ||
		strings.HasPrefix(hostname, "10.") ||
		isPrivateClassB(hostname)
}

// isProductionOrigin checks the configured CORS whitelist
func (s *Server) isProductionOrigin(originURL *url.URL) bool {
	for _, allowed := range s.config.GetCORSOrigins() {
		if originURL.String() == allowed {
			return true
		}

		// *.example.com
		if strings.HasPrefix(allowed, "*.") {
			if strings.HasSuffix(originURL.Hostname(), strings.TrimPrefix(allowed, "*")) {
				return true
			}
		}
	}

	s.logger.Warn("WebSocket connection rejected: origin %s not in whitelist", originURL.String())
	return false
}

// isPrivateClassB checks for 172.16.0.0 to 172.31.255.255
func isPrivateClassB(hostname string) bool {
	if !strings.HasPrefix(hostname, "172.") {
		return false
	}

	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return false
	}

	switch parts[1] {
	case "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "31":
		return true
	default:
		return false
	}
}
