package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/repository"
	"storefront-service/internal/repository/memory"
	accountsvc "storefront-service/internal/service/account"
	customersvc "storefront-service/internal/service/customer"
	pricingsvc "storefront-service/internal/service/pricing"
)

func newHookedStore(t *testing.T) (*memory.Store, repository.Set) {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	set := store.Set()

	pricing := pricingsvc.NewPricingService(set.Pricing, set.Settings, "KES", logger)
	directory := customersvc.NewCustomerService(set.Customers, set.Contacts, set.Addresses, pricing, logger)
	accounts := accountsvc.NewAccountService(accountsvc.Deps{
		Users:     set.Users,
		Tags:      set.Tags,
		Todos:     set.Todos,
		Contacts:  set.Contacts,
		Addresses: set.Addresses,
		Directory: directory,
	}, logger)
	set.Orders.RegisterInterceptor(NewWebCustomerHook(directory, accounts, pricing, logger))
	return store, set
}

func guestOrder(mail string) *order.Order {
	return &order.Order{
		Customer:     customer.GuestCustomer,
		ContactEmail: mail,
		Items: []order.Item{
			{ItemCode: "BOWL-01", Qty: decimal.NewFromInt(1), Rate: decimal.NewFromInt(5), Warehouse: "Stores - EP"},
		},
	}
}

func TestBeforeInsert_GuestOrderIdempotent(t *testing.T) {
	store, set := newHookedStore(t)
	ctx := context.Background()

	first := guestOrder("jane.doe@example.com")
	require.NoError(t, set.Orders.Insert(ctx, first))
	second := guestOrder("jane.doe@example.com")
	require.NoError(t, set.Orders.Insert(ctx, second))

	assert.Equal(t, 1, store.CustomerCount("jane.doe@example.com"))
	assert.Equal(t, 1, store.ContactCount("jane.doe@example.com"))
	assert.Equal(t, 1, store.UserCount())
	assert.Equal(t, first.Customer, second.Customer)
	assert.NotEqual(t, customer.GuestCustomer, first.Customer)

	cust, err := set.Customers.FindByID(ctx, first.Customer)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", cust.CustomerName)
	assert.Equal(t, "Jane Doe", first.CustomerName)
	assert.Equal(t, "Individual", first.CustomerGroup)
	assert.Equal(t, "Website Price List", first.SellingPriceList)

	user, err := set.Users.FindByEmail(ctx, "jane.doe@example.com")
	require.NoError(t, err)
	assert.True(t, user.SendWelcomeEmail)
	assert.Equal(t, "jane.doe", user.FirstName)
}

func TestBeforeInsert_PrefersContactDisplay(t *testing.T) {
	_, set := newHookedStore(t)
	ctx := context.Background()

	o := guestOrder("")
	o.BillingEmail = "buyer@example.com"
	o.ContactPerson = "Amina Otieno"
	require.NoError(t, set.Orders.Insert(ctx, o))

	assert.Equal(t, "Amina Otieno", o.CustomerName)
	contact, err := set.Contacts.FindByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.True(t, customer.HasLink(contact.Links, customer.LinkTypeCustomer, o.Customer))
}

func TestBeforeInsert_NoEmailLeavesOrderAlone(t *testing.T) {
	store, set := newHookedStore(t)
	ctx := context.Background()

	o := guestOrder("")
	require.NoError(t, set.Orders.Insert(ctx, o))

	assert.Equal(t, customer.GuestCustomer, o.Customer)
	assert.Equal(t, 0, store.UserCount())
}

func TestBeforeInsert_ExistingCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("back-office order is untouched", func(t *testing.T) {
		store, set := newHookedStore(t)
		o := guestOrder("staff-typed@example.com")
		o.Customer = "CUST-EXISTING"
		require.NoError(t, set.Orders.Insert(ctx, o))

		assert.Equal(t, "CUST-EXISTING", o.Customer)
		assert.Equal(t, 0, store.UserCount())
	})

	t.Run("web order gets a login without welcome mail", func(t *testing.T) {
		store, set := newHookedStore(t)
		o := guestOrder("returning@example.com")
		o.Customer = "CUST-EXISTING"
		o.IsWebOrder = true
		require.NoError(t, set.Orders.Insert(ctx, o))

		assert.Equal(t, "CUST-EXISTING", o.Customer)
		assert.Equal(t, 1, store.UserCount())
		user, err := set.Users.FindByEmail(ctx, "returning@example.com")
		require.NoError(t, err)
		assert.False(t, user.SendWelcomeEmail)
	})
}

type failingDirectory struct{}

func (failingDirectory) ResolveOrCreate(context.Context, string, string, customer.Classification) (string, error) {
	return "", errors.New("store offline")
}
func (failingDirectory) EnsureContact(context.Context, string, string, string) error { return nil }
func (failingDirectory) LinkAddresses(context.Context, string, ...string)            {}

func TestBeforeInsert_DirectoryFailureRejectsInsert(t *testing.T) {
	store := memory.NewStore()
	set := store.Set()
	set.Orders.RegisterInterceptor(NewWebCustomerHook(failingDirectory{}, nil, nil, zap.NewNop()))

	err := set.Orders.Insert(context.Background(), guestOrder("jane@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store offline")
	assert.Equal(t, 0, store.OrderCount())
}

func TestNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"jane.doe@example.com":  "Jane Doe",
		"JOHN@example.com":      "John",
		"mary.anne.k@x.io":      "Mary Anne K",
		"o'brien.sean@mail.com": "O'Brien Sean",
		"no-at-sign":            "No-At-Sign",
	}
	for in, want := range cases {
		assert.Equal(t, want, NameFromEmail(in), in)
	}
}
