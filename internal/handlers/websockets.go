package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 2 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000

	wsTypeSummary = "summary"
	wsTypeError   = "error"
)

var errSessionEnded = errors.New("session ended")

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // the bearer token is the access check
}

// @Summary      Live summary stream
// @Description  WebSocket; pushes {"type":"summary","data":Summary} every interval until logout.
// @Tags         summary
// @Param        token        query  string  false  "Bearer token when no Authorization header can be sent"
// @Param        interval     query  string  false  "Go duration, e.g. 2s"
// @Param        interval_ms  query  int     false  "Interval in milliseconds"
// @Router       /api/v1/ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	sess := currentSession(c)
	token := c.GetString(ctxToken)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if h.log != nil {
		h.log.Infow("ws_connected", "username", sess.Username, "interval", interval)
	}

	// Send initial summary immediately.
	if err := h.sendSummary(c.Request.Context(), conn, sess.Username); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.checkSession(token); err != nil {
				h.sendError(conn, err)
				return
			}
			if err := h.sendSummary(c.Request.Context(), conn, sess.Username); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// checkSession stops the stream once the session behind token is gone.
func (h *Handler) checkSession(token string) error {
	if _, err := h.services.ParseToken(token); err != nil {
		return errSessionEnded
	}
	return nil
}

// Helper: sendSummary recomputes and writes the summary with a write deadline.
// A store outage is reported to the client and keeps the stream open.
func (h *Handler) sendSummary(ctx context.Context, conn *websocket.Conn, username string) error {
	sum, err := h.services.Summary(ctx, username)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_summary_failed", "username", username, "err", err)
		}
		if errors.Is(err, service.ErrStoreUnavailable) {
			return h.writeEnvelope(conn, wsEnvelope{Type: wsTypeError, Error: errStoreUnavailable})
		}
		return err
	}
	return h.writeEnvelope(conn, wsEnvelope{Type: wsTypeSummary, Data: sum})
}

func (h *Handler) sendError(conn *websocket.Conn, err error) {
	_ = h.writeEnvelope(conn, wsEnvelope{Type: wsTypeError, Error: err.Error()})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
		time.Now().Add(writeWait))
}

func (h *Handler) writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
