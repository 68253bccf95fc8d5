package handler

import (
	"net/http"

	"murmur/internal/services"
	"murmur/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Reply echoes the posted message back.
func (h *ChatHandler) Reply(c *gin.Context) {
	var req httpdto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	c.JSON(http.StatusOK, httpdto.ChatResponse{Reply: h.service.Reply(req.Message)})
}
