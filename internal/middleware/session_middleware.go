package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// SessionHeader carries the shopper's cart session id in both directions.
const SessionHeader = "X-Session-Id"

// SessionMiddleware resolves the cart session. A request without a session
// gets a fresh id, echoed in the response header so the client can keep it.
// A malformed id is rejected.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(SessionHeader))
		if raw == "" {
			raw = utils.GenerateSessionID()
		} else if _, err := uuid.Parse(raw); err != nil {
			utils.Error(c, 400, "INVALID_SESSION", "X-Session-Id must be a UUID")
			c.Abort()
			return
		}

		c.Header(SessionHeader, raw)
		c.Set(utils.CtxSessionID, raw)
		c.Next()
	}
}

// GetSessionID returns the session resolved by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(utils.CtxSessionID)
}
