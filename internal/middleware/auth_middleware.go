// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/pkg/response"
	"storefront-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type AuthMiddleware struct {
	verifier *jwt.Verifier
}

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Identify resolves the caller into a Principal. Requests without a valid
// token continue as Guest.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := session.Guest(c.Request.URL.Path)

		if token := extractToken(c); token != "" && m.verifier != nil {
			if claims, err := m.verifier.Verify(token); err == nil {
				p = session.Principal{
					User:     claims.Email,
					UserType: claims.UserType,
					Roles:    claims.Roles,
					TokenID:  claims.ID,
					Path:     c.Request.URL.Path,
				}
				c.Set("jti", claims.ID)
				c.Set("roles", claims.Roles)
			}
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireLogin rejects guests. MUST be used after Identify().
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c).IsGuest() {
			response.Error(c, http.StatusUnauthorized, "Please log in to continue", nil)
			return
		}
		c.Next()
	}
}

// RequireRole rejects callers holding none of roles. MUST be used after Identify().
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		for _, role := range roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "insufficient permissions", nil, map[string]interface{}{
			"required_roles": roles,
			"user_roles":     p.Roles,
		})
	}
}

// LoginRequired returns Identify + RequireLogin.
func (m *AuthMiddleware) LoginRequired() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Identify(),
		m.RequireLogin(),
	}
}

// extractToken extracts Bearer token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Browsers cannot set headers on a websocket upgrade.
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}
