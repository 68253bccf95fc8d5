package handler

import (
	"net/http"
	"time"

	"murmur/internal/services"
	"murmur/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service *services.DiagnosticsService
}

func NewHealthHandler(service *services.DiagnosticsService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports liveness without touching any dependency.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.HealthResponse{Status: "ok", Time: time.Now().UTC()})
}

func (h *HealthHandler) TestDB(c *gin.Context) {
	now, err := h.service.DatabaseTime(c.Request.Context())
	if err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypePrivate)
		c.JSON(http.StatusInternalServerError, httpdto.DatabaseTimeResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, httpdto.DatabaseTimeResponse{Success: true, Time: &now})
}

func (h *HealthHandler) RelayStats(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.RelayStatsResponse{Connections: h.service.Connections()})
}
