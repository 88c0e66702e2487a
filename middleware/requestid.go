package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request identifier on both requests
	// and responses.
	RequestIDHeader = "X-Request-Id"

	// RequestIDKey is the gin context key handlers can read the
	// identifier from.
	RequestIDKey = "request_id"
)

// RequestID assigns each request an identifier, honoring one supplied
// by the caller, and echoes it in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
