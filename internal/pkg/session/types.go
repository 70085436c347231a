// internal/pkg/session/types.go
package session

import "strings"

const (
	// GuestUser is the identity of unauthenticated callers.
	GuestUser = "Guest"

	UserTypeWebsite = "Website User"
	UserTypeSystem  = "System User"
)

// Principal is the caller identity threaded explicitly through every
// operation instead of ambient session state.
type Principal struct {
	User     string   `json:"user"` // login email, or GuestUser
	UserType string   `json:"user_type,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	TokenID  string   `json:"-"`
	Path     string   `json:"-"`
}

// Guest returns the principal of an unauthenticated request.
func Guest(path string) Principal {
	return Principal{User: GuestUser, Path: path}
}

// IsGuest reports whether the caller is unauthenticated.
func (p Principal) IsGuest() bool {
	return p.User == "" || strings.EqualFold(p.User, GuestUser)
}

// IsSystemUser reports whether the caller is staff rather than a storefront customer.
func (p Principal) IsSystemUser() bool {
	return !p.IsGuest() && p.UserType == UserTypeSystem
}

// HasRole checks if the principal carries role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
