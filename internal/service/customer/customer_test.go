package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/domain/customer"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/repository"
	"storefront-service/internal/repository/memory"
	pricingsvc "storefront-service/internal/service/pricing"
)

func newService(t *testing.T) (*CustomerService, repository.Set, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	set := store.Set()
	policy := pricingsvc.NewPricingService(set.Pricing, set.Settings, "USD", zap.NewNop())
	return NewCustomerService(set.Customers, set.Contacts, set.Addresses, policy, zap.NewNop()), set, store
}

func TestResolveOrCreate_IsIdempotentAndKeepsFirstName(t *testing.T) {
	svc, set, store := newService(t)
	ctx := context.Background()

	first, err := svc.ResolveOrCreate(ctx, "Ada Lovelace", "ada@example.com", customer.Retail)
	require.NoError(t, err)
	second, err := svc.ResolveOrCreate(ctx, "Countess of Lovelace", "ada@example.com", customer.Wholesale)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.CustomerCount("ada@example.com"))

	cust, err := set.Customers.FindByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", cust.CustomerName)
	assert.Equal(t, "Individual", cust.CustomerType)
	assert.Equal(t, "Individual", cust.CustomerGroup)
	assert.Equal(t, "Website Price List", cust.DefaultPriceList)
	assert.Equal(t, "All Territories", cust.Territory)
}

func TestResolveOrCreate_WholesalePolicy(t *testing.T) {
	svc, set, _ := newService(t)
	ctx := context.Background()

	id, err := svc.ResolveOrCreate(ctx, "Acme Ltd", "buyer@acme.test", customer.Wholesale)
	require.NoError(t, err)

	cust, err := set.Customers.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Company", cust.CustomerType)
	assert.Equal(t, "Commercial", cust.CustomerGroup)
	assert.Equal(t, "Standard Selling", cust.DefaultPriceList)
}

func TestResolveOrCreate_RequiresEmail(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.ResolveOrCreate(context.Background(), "No Mail", "  ", customer.Retail)
	require.Error(t, err)
	assert.True(t, xerrors.IsValidation(err))
}

func TestEnsureContact_NeverDuplicatesLinks(t *testing.T) {
	svc, set, store := newService(t)
	ctx := context.Background()

	id, err := svc.ResolveOrCreate(ctx, "Grace", "grace@example.com", customer.Retail)
	require.NoError(t, err)

	require.NoError(t, svc.EnsureContact(ctx, id, "Grace", "grace@example.com"))
	require.NoError(t, svc.EnsureContact(ctx, id, "Grace H", "grace@example.com"))
	require.NoError(t, svc.EnsureContact(ctx, "CUST-OTHER", "Grace", "grace@example.com"))

	assert.Equal(t, 1, store.ContactCount("grace@example.com"))
	contact, err := set.Contacts.FindByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, []customer.Link{
		{LinkType: "Customer", LinkName: id},
		{LinkType: "Customer", LinkName: "CUST-OTHER"},
	}, contact.Links)
}

func TestLinkAddresses_SkipsBrokenAddress(t *testing.T) {
	svc, set, _ := newService(t)
	ctx := context.Background()

	id, err := svc.ResolveOrCreate(ctx, "Linus", "linus@example.com", customer.Retail)
	require.NoError(t, err)
	addr := &customer.Address{Title: "Home", Line1: "1 Main St", City: "Oslo", Country: "Norway"}
	require.NoError(t, set.Addresses.Create(ctx, addr))

	svc.LinkAddresses(ctx, id, "ADDR-MISSING", "", addr.ID)
	svc.LinkAddresses(ctx, id, addr.ID)

	linked, err := set.Addresses.ListLinked(ctx, "Customer", id)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, addr.ID, linked[0].ID)
	assert.Len(t, linked[0].Links, 1)
}

func TestCustomerForUser_FallsBackToContactLink(t *testing.T) {
	svc, set, _ := newService(t)
	ctx := context.Background()

	id, err := svc.ResolveOrCreate(ctx, "Owner", "owner@example.com", customer.Retail)
	require.NoError(t, err)
	require.NoError(t, set.Contacts.Create(ctx, &customer.Contact{
		FirstName: "Assistant",
		Email:     "assistant@example.com",
		Links:     []customer.Link{{LinkType: "Customer", LinkName: id}},
	}))

	got, err := svc.CustomerForUser(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = svc.CustomerForUser(ctx, "assistant@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.CustomerForUser(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

// racingCustomers lets a concurrent writer insert the same email between the
// service's lookup and its insert.
type racingCustomers struct {
	customer.Repository
	winner *customer.Customer
	raced  bool
}

func (r *racingCustomers) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	if !r.raced {
		r.raced = true
		if err := r.Repository.Create(ctx, r.winner); err != nil {
			return nil, err
		}
		return nil, xerrors.ErrNotFound
	}
	return r.Repository.FindByEmail(ctx, email)
}

type racingContacts struct {
	customer.ContactRepository
	winner *customer.Contact
	raced  bool
}

func (r *racingContacts) FindByEmail(ctx context.Context, email string) (*customer.Contact, error) {
	if !r.raced {
		r.raced = true
		if err := r.ContactRepository.Create(ctx, r.winner); err != nil {
			return nil, err
		}
		return nil, xerrors.ErrNotFound
	}
	return r.ContactRepository.FindByEmail(ctx, email)
}

func TestResolveOrCreate_ConflictReturnsWinner(t *testing.T) {
	store := memory.NewStore()
	set := store.Set()
	ctx := context.Background()
	policy := pricingsvc.NewPricingService(set.Pricing, set.Settings, "USD", zap.NewNop())

	winner := &customer.Customer{CustomerName: "First Writer", Email: "race@example.com"}
	customers := &racingCustomers{Repository: set.Customers, winner: winner}
	svc := NewCustomerService(customers, set.Contacts, set.Addresses, policy, zap.NewNop())

	id, err := svc.ResolveOrCreate(ctx, "Second Writer", "race@example.com", customer.Retail)
	require.NoError(t, err)
	require.NotEmpty(t, winner.ID)
	assert.Equal(t, winner.ID, id)
	assert.Equal(t, 1, store.CustomerCount("race@example.com"))

	cust, err := set.Customers.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "First Writer", cust.CustomerName)
}

func TestEnsureContact_ConflictLinksWinnerOnce(t *testing.T) {
	store := memory.NewStore()
	set := store.Set()
	ctx := context.Background()
	policy := pricingsvc.NewPricingService(set.Pricing, set.Settings, "USD", zap.NewNop())

	winner := &customer.Contact{FirstName: "First Writer", Email: "race@example.com"}
	contacts := &racingContacts{ContactRepository: set.Contacts, winner: winner}
	svc := NewCustomerService(set.Customers, contacts, set.Addresses, policy, zap.NewNop())

	require.NoError(t, svc.EnsureContact(ctx, "CUST-RACE", "Second Writer", "race@example.com"))
	require.NoError(t, svc.EnsureContact(ctx, "CUST-RACE", "Second Writer", "race@example.com"))

	assert.Equal(t, 1, store.ContactCount("race@example.com"))
	contact, err := set.Contacts.FindByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, contact.ID)
	assert.Equal(t, "First Writer", contact.FirstName)
	assert.Equal(t, []customer.Link{{LinkType: "Customer", LinkName: "CUST-RACE"}}, contact.Links)
}
