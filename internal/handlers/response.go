package handlers

import (
	"errors"
	"net/http"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusLoggedOut = "logged_out"

	errStoreUnavailable = "store unavailable, try again later"
	errConflict         = "ledger changed since it was loaded; reload and retry"
	errRecordIndex      = "record index out of range"
	errInternal         = "internal error"
	errInvalidBodyPref  = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps ledger and store errors to HTTP statuses.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrInvalidRecord):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRecordIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": errRecordIndex})
	case errors.Is(err, service.ErrConflict):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusConflict, gin.H{"error": errConflict})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errStoreUnavailable, logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
