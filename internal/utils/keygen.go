package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber returns an ID like ORD-YYYYMMDD-1A2B3C4D. The date
// part uses UTC; uniqueness is enforced by the orders table.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

// GenerateSessionID returns a fresh cart session id.
func GenerateSessionID() string {
	return uuid.New().String()
}
