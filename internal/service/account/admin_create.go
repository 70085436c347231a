// internal/service/account/admin_create.go
package account

import (
	"context"
	"fmt"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StaffRole is granted to the bootstrap staff account.
const StaffRole = "System Manager"

// EnsureStaffUser creates the staff System User that receives approval tasks
// if it does not exist yet (called on startup).
func (s *AccountService) EnsureStaffUser(ctx context.Context, mail, password, fullName string) error {
	if mail == "" || password == "" || fullName == "" {
		return fmt.Errorf("staff email, password, and name must be provided via environment variables")
	}

	exists, err := s.users.Exists(ctx, mail)
	if err != nil {
		return fmt.Errorf("failed to check staff user: %w", err)
	}
	if exists {
		s.logger.Info("staff user already exists, skipping creation")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &account.User{
		Email:        mail,
		FirstName:    fullName,
		UserType:     session.UserTypeSystem,
		Enabled:      true,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	if err := s.users.AddRole(ctx, mail, StaffRole); err != nil {
		// log only, startup must not fail on the role grant
		s.logger.Error("failed to assign staff role", zap.Error(err))
	}

	s.logger.Info("staff user created", zap.String("email", mail))
	return nil
}
