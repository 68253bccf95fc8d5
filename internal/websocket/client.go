package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	murmur_errors "murmur/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
	sendBufferSize = 256
)

// Client adapts a gorilla websocket connection to the hub's Peer interface.
// Outbound messages go through a bounded queue drained by writePump, so Send
// never blocks the hub.
type Client struct {
	id          string
	hub         *Hub
	conn        *ws.Conn
	send        chan Message
	mu          sync.RWMutex // guards closed and close(send)
	closed      bool
	connectedAt time.Time
	logger      *WebSocketLogger
}

// NewClient creates a client with a fresh connection id
func NewClient(hub *Hub, conn *ws.Conn, logger *WebSocketLogger) *Client {
	if logger == nil {
		logger = NewWebSocketLogger()
	}
	return &Client{
		id:          uuid.New().String(),
		hub:         hub,
		conn:        conn,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
		logger:      logger,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues msg for delivery (non-blocking)
func (c *Client) Send(msg Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return murmur_errors.ErrPeerClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return murmur_errors.ErrSendBufferFull
	}
}

// Close stops the write pump, which sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.send)
	return nil
}

// Serve registers the client, pumps messages until the connection ends and
// then unregisters it. It blocks for the lifetime of the connection.
func (c *Client) Serve() {
	c.hub.Connect(c)
	go c.writePump()

	c.readPump()

	c.hub.Disconnect(c)
	_ = c.Close()
	c.logger.Info("session ended", c.id, zap.Duration("duration", time.Since(c.connectedAt)))
}

func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure, ws.CloseNoStatusReceived) {
				c.logger.Error("websocket unexpected close", c.id, err)
			}
			return
		}
		c.hub.Relay(c, Message{Kind: kind, Data: data})
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
				_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(msg.Kind, msg.Data); err != nil {
				c.logger.Debug("websocket write failed", c.id, err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
