package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP returns the first X-Forwarded-For entry, then X-Real-IP, then
// gin's remote address, and "unknown" when none is available.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
