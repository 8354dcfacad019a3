package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/sse"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// SSEHandler streams placed orders and coupon expiries to admin dashboards.
type SSEHandler struct {
	hub          *sse.Hub
	jwtSecret    string
	pingInterval time.Duration
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, jwtSecret string) *SSEHandler {
	return &SSEHandler{hub: hub, jwtSecret: jwtSecret, pingInterval: 30 * time.Second}
}

// Stream handles GET /v1/admin/events?token=<jwt>
// EventSource API cannot set custom headers, so JWT is passed via query param.
func (h *SSEHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Missing token query parameter")
		return
	}

	claims, err := utils.ValidateJWT(h.jwtSecret, token)
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	clientID := fmt.Sprintf("admin-%d-%d", claims.UserID, time.Now().UnixNano())

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Int("user_id", claims.UserID).Msg("Admin SSE stream started")

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(msg.Event), string(msg.Data))
			return true
		case <-ping.C:
			c.SSEvent("ping", gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
