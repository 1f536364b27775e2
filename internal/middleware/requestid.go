package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	contextReqID    = "request_id"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Set(contextReqID, reqID)
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Next()
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(contextReqID)
}
