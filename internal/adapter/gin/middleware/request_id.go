package middleware

import (
	"github.com/gin-gonic/gin"

	"user-directory-api/pkg/logger"
)

// RequestID reuses the caller's X-Request-ID or generates one, stores it on the
// request context and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logger.RequestIDHeader)
		if id == "" {
			id = logger.NewRequestID()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(logger.RequestIDHeader, id)
		c.Next()
	}
}
