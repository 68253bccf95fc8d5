package websocket

import (
	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub      *Hub
	upgrader ws.Upgrader
	logger   *WebSocketLogger
}

func NewHandler(hub *Hub, origins *OriginAuthorizer, logger *WebSocketLogger) *Handler {
	if logger == nil {
		logger = NewWebSocketLogger()
	}
	upgrader := ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if origins != nil {
		upgrader.CheckOrigin = origins.CheckOrigin
	}
	return &Handler{hub: hub, upgrader: upgrader, logger: logger}
}

// Connect upgrades the request and serves the connection until it closes
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error response
		h.logger.Warn("websocket upgrade failed", "", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		return
	}

	NewClient(h.hub, conn, h.logger).Serve()
}
