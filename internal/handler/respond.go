package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"murmur/internal/transport/httpdto"
	murmur_errors "murmur/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Anything unrecognised is
// handed to the error middleware as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, murmur_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(publicMessage(err, murmur_errors.ErrInvalidInput), "INVALID_REQUEST"))
	case errors.Is(err, murmur_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, murmur_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(publicMessage(err, murmur_errors.ErrAlreadyExists), "ALREADY_EXISTS"))
	case errors.Is(err, murmur_errors.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("service unavailable", "SERVICE_UNAVAILABLE"))
	default:
		c.Status(http.StatusInternalServerError)
		_ = c.Error(err)
	}
}

// publicMessage strips the trailing sentinel text from a wrapped error.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid id", "INVALID_REQUEST"))
		return 0, false
	}
	return id, true
}
