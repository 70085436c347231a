// internal/service/storefront/guards.go
package storefront

import (
	"context"
	"fmt"

	"storefront-service/internal/domain/storefront"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"
)

// Pages with a redirect guard.
const (
	PageProfile       = "profile"
	PageAddresses     = "addresses"
	PagePortal        = "portal"
	PageSignup        = "signup"
	PageSignupSuccess = "signup-success"
)

// Redirect decides where a visitor of page should be sent instead.
func (s *StorefrontService) Redirect(ctx context.Context, p session.Principal, page string) (*storefront.Redirect, error) {
	out := &storefront.Redirect{Page: page}
	switch page {
	case PageProfile, PageAddresses, PagePortal:
		if p.IsGuest() {
			out.RedirectTo = "/login?redirect-to=/" + page
		}
	case PageSignup:
		if !p.IsGuest() {
			system, err := s.isSystemUser(ctx, p)
			if err != nil {
				return nil, err
			}
			out.RedirectTo = "/portal"
			if system {
				out.RedirectTo = "/app"
			}
		}
	case PageSignupSuccess:
		if p.IsGuest() {
			out.RedirectTo = "/signup"
			break
		}
		system, err := s.isSystemUser(ctx, p)
		if err != nil {
			return nil, err
		}
		if system {
			out.RedirectTo = "/app"
		}
	default:
		return nil, fmt.Errorf("page %q: %w", page, xerrors.ErrNotFound)
	}
	return out, nil
}

// isSystemUser trusts the stored user type over the token's claim.
func (s *StorefrontService) isSystemUser(ctx context.Context, p session.Principal) (bool, error) {
	if s.users == nil {
		return p.IsSystemUser(), nil
	}
	userType, err := s.users.UserType(ctx, p.User)
	if err != nil {
		return false, fmt.Errorf("failed to read user type: %w", err)
	}
	return userType == session.UserTypeSystem, nil
}
