package handlers

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Gin context keys set by sessionMiddleware.
const (
	ctxSession = "session"
	ctxToken   = "token"
)

func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	sess, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxSession, sess)
	c.Set(ctxToken, token)
	c.Next()
}

// bearerToken reads the Authorization header. WebSocket upgrades may pass
// the token as ?token= instead. It aborts the request when none is usable.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if tok := c.Query("token"); tok != "" && websocket.IsWebSocketUpgrade(c.Request) {
			return tok, true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return "", false
	}
	return parts[1], true
}

// currentSession returns the session stored by sessionMiddleware.
func currentSession(c *gin.Context) service.Session {
	v, _ := c.Get(ctxSession)
	sess, _ := v.(service.Session)
	return sess
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}
