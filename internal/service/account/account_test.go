package account

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/websocket"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/pkg/session"
	"storefront-service/internal/repository"
	"storefront-service/internal/repository/memory"
	customersvc "storefront-service/internal/service/customer"
	pricingsvc "storefront-service/internal/service/pricing"
)

type recordingNotifier struct {
	todos []websocket.TodoData
	err   error
}

func (n *recordingNotifier) PublishTodo(_ context.Context, todo websocket.TodoData) error {
	n.todos = append(n.todos, todo)
	return n.err
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

type fixture struct {
	svc      *AccountService
	store    *memory.Store
	set      repository.Set
	notifier *recordingNotifier
	mailer   *recordingMailer
	verifier *jwt.Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	set := store.Set()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := jwt.NewManager(priv, jwt.Config{Issuer: "storefront", Audience: "storefront-users", TTL: time.Hour})

	pricing := pricingsvc.NewPricingService(set.Pricing, set.Settings, "USD", logger)
	directory := customersvc.NewCustomerService(set.Customers, set.Contacts, set.Addresses, pricing, logger)
	f := &fixture{
		store:    store,
		set:      set,
		notifier: &recordingNotifier{},
		mailer:   &recordingMailer{},
		verifier: tokens.Verifier,
	}
	f.svc = NewAccountService(Deps{
		Users:     set.Users,
		Tags:      set.Tags,
		Todos:     set.Todos,
		Contacts:  set.Contacts,
		Addresses: set.Addresses,
		Directory: directory,
		Tokens:    tokens.Generator,
		Mailer:    f.mailer,
		Notifier:  f.notifier,
		Site:      Site{Title: "Euro Plast", URL: "https://europlast.example"},
	}, logger)
	return f
}

func TestSignup_RequiresFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Signup(context.Background(), account.SignupRequest{FullName: "Jane", Email: "jane@example.com"})
	require.Error(t, err)
	assert.True(t, xerrors.IsValidation(err))
	assert.Equal(t, "Missing required fields", err.Error())
}

func TestSignup_RetailCreatesCustomerContactAndUser(t *testing.T) {
	f := newFixture(t)
	f.store.AddRole(account.RoleCustomer)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, account.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.True(t, res.OK)

	cust, err := f.set.Customers.FindByID(ctx, res.Customer)
	require.NoError(t, err)
	assert.Equal(t, "Individual", cust.CustomerType)

	user, err := f.set.Users.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, session.UserTypeWebsite, user.UserType)
	assert.True(t, user.Enabled)
	assert.False(t, user.SendWelcomeEmail)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
	assert.Contains(t, user.Roles, account.RoleCustomer)

	pending, err := f.set.Tags.HasTag(ctx, customer.LinkTypeCustomer, res.Customer, account.TagWholesalePending)
	require.NoError(t, err)
	assert.False(t, pending)
	assert.Empty(t, f.notifier.todos)
}

func TestSignup_ExistingLoginConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := account.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "pw"}

	_, err := f.svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, xerrors.ErrConflict))
	assert.Equal(t, 1, f.store.CustomerCount("jane@example.com"))
	assert.Equal(t, 1, f.store.UserCount())
}

func TestSignup_ReusesCheckoutCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A guest checkout leaves a customer and contact behind but no password.
	dir := customersvc.NewCustomerService(f.set.Customers, f.set.Contacts, f.set.Addresses,
		pricingsvc.NewPricingService(f.set.Pricing, f.set.Settings, "USD", zap.NewNop()), zap.NewNop())
	existing, err := dir.ResolveOrCreate(ctx, "Jane Doe", "jane@example.com", customer.Retail)
	require.NoError(t, err)

	res, err := f.svc.Signup(ctx, account.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, existing, res.Customer)
	assert.Equal(t, 1, f.store.CustomerCount("jane@example.com"))
}

func TestSignup_TraderIsFlaggedForApproval(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("hub down")
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, account.SignupRequest{FullName: "Trader Co", Email: "buyer@trader.co", Password: "pw", IsTrader: true})
	require.NoError(t, err)

	cust, err := f.set.Customers.FindByID(ctx, res.Customer)
	require.NoError(t, err)
	assert.Equal(t, "Individual", cust.CustomerType)
	assert.Equal(t, "Individual", cust.CustomerGroup)

	pending, err := f.set.Tags.HasTag(ctx, customer.LinkTypeCustomer, res.Customer, account.TagWholesalePending)
	require.NoError(t, err)
	assert.True(t, pending)

	todos, err := f.set.Todos.ListOpen(ctx, account.Administrator)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, customer.LinkTypeCustomer, todos[0].ReferenceType)
	assert.Equal(t, res.Customer, todos[0].ReferenceName)
	assert.Contains(t, todos[0].Description, "buyer@trader.co")

	require.Len(t, f.notifier.todos, 1)
	assert.Equal(t, todos[0].ID, f.notifier.todos[0].ID)
}

func TestEnsureAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAccount(ctx, "new@example.com", "new", true))
	require.NoError(t, f.svc.EnsureAccount(ctx, "new@example.com", "new", true))
	require.NoError(t, f.svc.EnsureAccount(ctx, "", "nobody", true))

	assert.Equal(t, 1, f.store.UserCount())
	assert.Equal(t, []string{"new@example.com"}, f.mailer.sent)

	require.NoError(t, f.svc.EnsureAccount(ctx, "quiet@example.com", "quiet", false))
	assert.Len(t, f.mailer.sent, 1)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, account.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "correct horse"})
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, account.LoginRequest{Email: "jane@example.com", Password: "correct horse"}, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := f.verifier.Verify(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, session.UserTypeWebsite, claims.UserType)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, account.LoginRequest{Email: "jane@example.com", Password: "nope"}, "10.0.0.1")
		assert.True(t, errors.Is(err, xerrors.ErrUnauthorized))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.Login(ctx, account.LoginRequest{Email: "ghost@example.com", Password: "x"}, "10.0.0.1")
		assert.True(t, errors.Is(err, xerrors.ErrUnauthorized))
	})

	t.Run("passwordless account cannot log in", func(t *testing.T) {
		require.NoError(t, f.svc.EnsureAccount(ctx, "guest@example.com", "guest", false))
		_, err := f.svc.Login(ctx, account.LoginRequest{Email: "guest@example.com", Password: ""}, "10.0.0.1")
		assert.True(t, errors.Is(err, xerrors.ErrUnauthorized))
	})
}

func TestProfileRequiresLogin(t *testing.T) {
	f := newFixture(t)
	guest := session.Guest("/profile")

	_, err := f.svc.GetProfile(context.Background(), guest)
	assert.True(t, errors.Is(err, xerrors.ErrUnauthorized))
	_, err = f.svc.ListAddresses(context.Background(), guest)
	assert.True(t, errors.Is(err, xerrors.ErrUnauthorized))
}

func TestUpdateProfileAndAddresses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Signup(ctx, account.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	caller := session.Principal{User: "jane@example.com", UserType: session.UserTypeWebsite}

	profile, err := f.svc.UpdateProfile(ctx, caller, customer.UpdateProfileRequest{FullName: "Jane W. Doe", Phone: "+254700"})
	require.NoError(t, err)
	assert.Equal(t, "Jane W. Doe", profile.FullName)
	assert.Equal(t, "+254700", profile.Phone)
	assert.Equal(t, res.Customer, profile.Customer)

	_, err = f.svc.SaveAddress(ctx, caller, customer.SaveAddressRequest{Line1: "1 Road"})
	assert.True(t, xerrors.IsValidation(err))

	saved, err := f.svc.SaveAddress(ctx, caller, customer.SaveAddressRequest{Line1: "1 Road", City: "Nairobi", Country: "Kenya"})
	require.NoError(t, err)

	list, err := f.svc.ListAddresses(ctx, caller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	other := session.Principal{User: "mallory@example.com", UserType: session.UserTypeWebsite}
	err = f.svc.DeleteAddress(ctx, other, saved.ID)
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))

	require.NoError(t, f.svc.DeleteAddress(ctx, caller, saved.ID))
	list, err = f.svc.ListAddresses(ctx, caller)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSyncProfile_KeepsEmailOwnedByAnotherContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, account.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, f.set.Contacts.Create(ctx, &customer.Contact{FirstName: "Office", Email: "office@example.com"}))
	caller := session.Principal{User: "jane@example.com", UserType: session.UserTypeWebsite}

	require.NoError(t, f.svc.SyncProfile(ctx, caller, "Jane Wanjiru", "office@example.com", "+254711"))

	contact, err := f.set.Contacts.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Wanjiru", contact.FirstName)
	assert.Equal(t, "+254711", contact.Phone)

	office, err := f.set.Contacts.FindByEmail(ctx, "office@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Office", office.FirstName)
	assert.Equal(t, 1, f.store.ContactCount("jane@example.com"))
	assert.Equal(t, 1, f.store.ContactCount("office@example.com"))
}
