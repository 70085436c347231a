// internal/service/account/account.go
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/websocket"
	"storefront-service/internal/pkg/besteffort"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/pkg/session"
	"storefront-service/internal/service/email"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Directory is the customer directory the account flows build on.
type Directory interface {
	ResolveOrCreate(ctx context.Context, displayName, email string, c customer.Classification) (string, error)
	EnsureContact(ctx context.Context, customerID, displayName, email string) error
	CustomerForUser(ctx context.Context, email string) (string, error)
	PrimaryAddress(ctx context.Context, customerID string) (*customer.Address, error)
}

// Mailer delivers an HTML email.
type Mailer interface {
	Send(to, subject, bodyHTML string) error
}

// TodoNotifier pushes new approval tasks to connected staff.
type TodoNotifier interface {
	PublishTodo(ctx context.Context, todo websocket.TodoData) error
}

type Site struct {
	Title string
	URL   string
}

type AccountService struct {
	users     account.Repository
	tags      account.TagRepository
	todos     account.TodoRepository
	contacts  customer.ContactRepository
	addresses customer.AddressRepository
	directory Directory
	tokens    *jwt.Generator
	limiter   *session.RateLimiter
	mailer    Mailer
	notifier  TodoNotifier
	site      Site
	logger    *zap.Logger
}

type Deps struct {
	Users     account.Repository
	Tags      account.TagRepository
	Todos     account.TodoRepository
	Contacts  customer.ContactRepository
	Addresses customer.AddressRepository
	Directory Directory
	Tokens    *jwt.Generator // nil disables Login
	Limiter   *session.RateLimiter
	Mailer    Mailer
	Notifier  TodoNotifier
	Site      Site
}

func NewAccountService(d Deps, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:     d.Users,
		tags:      d.Tags,
		todos:     d.Todos,
		contacts:  d.Contacts,
		addresses: d.Addresses,
		directory: d.Directory,
		tokens:    d.Tokens,
		limiter:   d.Limiter,
		mailer:    d.Mailer,
		notifier:  d.Notifier,
		site:      d.Site,
		logger:    logger,
	}
}

// ========== Signup ==========

// Signup creates a storefront login together with its customer and contact.
// Trader signups start on the retail policy and are flagged for approval.
func (s *AccountService) Signup(ctx context.Context, req account.SignupRequest) (*account.SignupResult, error) {
	fullName := strings.TrimSpace(req.FullName)
	mail := strings.TrimSpace(req.Email)
	if fullName == "" || mail == "" || req.Password == "" {
		return nil, xerrors.Validation("Missing required fields")
	}

	exists, err := s.users.Exists(ctx, mail)
	if err != nil {
		return nil, fmt.Errorf("failed to check account: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("account already exists: %w", xerrors.ErrConflict)
	}

	// Wholesale pricing is granted on approval, not at signup.
	customerID, err := s.directory.ResolveOrCreate(ctx, fullName, mail, customer.Retail)
	if err != nil {
		return nil, err
	}
	if err := s.directory.EnsureContact(ctx, customerID, fullName, mail); err != nil {
		return nil, err
	}
	if customer.ClassificationFor(bool(req.IsTrader)) == customer.Wholesale {
		if err := s.flagWholesalePending(ctx, customerID, fullName, mail); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &account.User{
		Email:            mail,
		FirstName:        fullName,
		UserType:         session.UserTypeWebsite,
		Enabled:          true,
		PasswordHash:     string(hash),
		SendWelcomeEmail: false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, fmt.Errorf("account already exists: %w", err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if err := s.grantCustomerRole(ctx, mail); err != nil {
		return nil, err
	}

	s.logger.Info("portal user signed up",
		zap.String("customer", customerID),
		zap.Bool("trader", bool(req.IsTrader)),
	)
	return &account.SignupResult{OK: true, Customer: customerID}, nil
}

func (s *AccountService) flagWholesalePending(ctx context.Context, customerID, fullName, mail string) error {
	besteffort.Ignore(ctx, s.logger, "tag_wholesale_pending", func(ctx context.Context) error {
		return s.tags.AddTag(ctx, customer.LinkTypeCustomer, customerID, account.TagWholesalePending)
	}, zap.String("customer", customerID))

	todo := &account.ToDo{
		AllocatedTo:   account.Administrator,
		ReferenceType: customer.LinkTypeCustomer,
		ReferenceName: customerID,
		Description:   fmt.Sprintf("Wholesale signup approval needed for %s (%s)", fullName, mail),
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return fmt.Errorf("failed to create approval task: %w", err)
	}

	if s.notifier != nil {
		besteffort.Ignore(ctx, s.logger, "publish_todo", func(ctx context.Context) error {
			return s.notifier.PublishTodo(ctx, websocket.TodoData{
				ID:            todo.ID,
				AllocatedTo:   todo.AllocatedTo,
				ReferenceType: todo.ReferenceType,
				ReferenceName: todo.ReferenceName,
				Description:   todo.Description,
			})
		}, zap.String("todo", todo.ID))
	}
	return nil
}

// ========== Provisioning ==========

// EnsureAccount creates a passwordless Website User for mail unless a login
// already exists. sendWelcome mails the new user a sign-in link.
func (s *AccountService) EnsureAccount(ctx context.Context, mail, firstName string, sendWelcome bool) error {
	mail = strings.TrimSpace(mail)
	if mail == "" {
		return nil
	}
	exists, err := s.users.Exists(ctx, mail)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if exists {
		return nil
	}

	user := &account.User{
		Email:            mail,
		FirstName:        firstName,
		UserType:         session.UserTypeWebsite,
		Enabled:          true,
		SendWelcomeEmail: sendWelcome,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	if err := s.grantCustomerRole(ctx, mail); err != nil {
		return err
	}

	s.logger.Info("website user provisioned", zap.Bool("welcome_email", sendWelcome))

	if sendWelcome && s.mailer != nil {
		besteffort.Ignore(ctx, s.logger, "send_welcome_email", func(ctx context.Context) error {
			subject, body := email.WelcomeEmail(s.site.Title, s.site.URL, firstName)
			return s.mailer.Send(mail, subject, body)
		})
	}
	return nil
}

func (s *AccountService) grantCustomerRole(ctx context.Context, mail string) error {
	ok, err := s.users.RoleExists(ctx, account.RoleCustomer)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if !ok {
		return nil
	}
	if err := s.users.AddRole(ctx, mail, account.RoleCustomer); err != nil {
		return fmt.Errorf("failed to grant customer role: %w", err)
	}
	return nil
}

// ========== Login ==========

// Login checks the password and issues an access token.
func (s *AccountService) Login(ctx context.Context, req account.LoginRequest, ip string) (*account.LoginResponse, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("login: %w", xerrors.ErrUnavailable)
	}

	allowed, err := s.limiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, fmt.Errorf("too many login attempts, please try again in 15 minutes: %w", xerrors.ErrRateLimited)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !user.Enabled {
		return nil, fmt.Errorf("account is disabled: %w", xerrors.ErrForbidden)
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
	}

	token, _, err := s.tokens.GenerateAccessToken(user.Email, user.UserType, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	if err := s.limiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return &account.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		UserType:    user.UserType,
	}, nil
}

// UserType returns the stored user type of a login, defaulting to Website User.
func (s *AccountService) UserType(ctx context.Context, mail string) (string, error) {
	user, err := s.users.FindByEmail(ctx, mail)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return session.UserTypeWebsite, nil
		}
		return "", err
	}
	if user.UserType == "" {
		return session.UserTypeWebsite, nil
	}
	return user.UserType, nil
}
