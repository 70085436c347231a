// internal/middleware/helpers.go
package middleware

import (
	"storefront-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// GetPrincipal returns the caller set by Identify, or Guest when it did not run.
func GetPrincipal(c *gin.Context) session.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(session.Principal); ok {
			return p
		}
	}
	return session.Guest(c.Request.URL.Path)
}

// GetJTI gets JTI from context
func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jtiStr, ok := jti.(string)
	return jtiStr, ok
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	return !GetPrincipal(c).IsGuest()
}
