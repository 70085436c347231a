// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"storefront-service/internal/pkg/requestctx"
	"storefront-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. Nothing is
// written when the handler already started the response.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			logger.Error("panic recovered",
				zap.Any("panic", recovered),
				zap.String("request_id", requestctx.RequestID(c.Request.Context())),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"),
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
