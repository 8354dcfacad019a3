package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// RequestIDHeader is echoed on every response. An incoming value is kept
// so a proxy can correlate its own logs.
const RequestIDHeader = "X-Request-Id"

// LoggingMiddleware assigns a request id and writes one access log line per
// request. Health probes log at debug so they do not drown real traffic.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()[:8]
		}
		c.Set(utils.CtxRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		event := log.WithLevel(accessLevel(path, status))
		if session := c.GetString(utils.CtxSessionID); session != "" {
			event = event.Str("session_id", session)
		}
		if adminID := c.GetInt(utils.CtxAdminID); adminID != 0 {
			event = event.Int("admin_id", adminID)
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("HTTP Request")
	}
}

func accessLevel(path string, status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case strings.HasSuffix(path, "/health"):
		return zerolog.DebugLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}
