package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vzahanych/outfit-trends/internal/server/utils"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// RequestIDMiddleware tags the request with an id, echoes it back and stores a
// logger carrying it in the request context.
func RequestIDMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.New().String()
		}

		c.Header(RequestIDHeader, requestID)
		c.Set(utils.RequestIDKey, requestID)

		reqLogger := log.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))

		c.Next()
	}
}
