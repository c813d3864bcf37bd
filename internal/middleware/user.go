package middleware

import (
	"github.com/gin-gonic/gin"
)

// UserContext reads the caller identity set by the auth proxy and makes it
// available to handlers for audit fields. Authentication itself happens
// upstream; uploads and orders are attributed to whatever the proxy passes.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
