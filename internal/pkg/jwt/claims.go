// internal/pkg/jwt/claims.go
package jwt

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a storefront access token. The subject and the
// email are the same login account.
type Claims struct {
	Email    string   `json:"email"`
	UserType string   `json:"user_type"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}
