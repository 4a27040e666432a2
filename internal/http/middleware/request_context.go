package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// AttachRequestID tags every request with an id, honoring one supplied by the
// caller so ids stay stable across proxies.
func AttachRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestID reads the id attached by AttachRequestID.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
