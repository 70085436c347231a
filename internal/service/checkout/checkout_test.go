package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/checkout"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/settings"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"
	"storefront-service/internal/repository"
	"storefront-service/internal/repository/memory"
	accountsvc "storefront-service/internal/service/account"
	customersvc "storefront-service/internal/service/customer"
	"storefront-service/internal/service/hook"
	pricingsvc "storefront-service/internal/service/pricing"
)

type fixture struct {
	svc   *CheckoutService
	store *memory.Store
	set   repository.Set
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	set := store.Set()

	pricing := pricingsvc.NewPricingService(set.Pricing, set.Settings, "USD", logger)
	directory := customersvc.NewCustomerService(set.Customers, set.Contacts, set.Addresses, pricing, logger)
	accounts := accountsvc.NewAccountService(accountsvc.Deps{
		Users:     set.Users,
		Tags:      set.Tags,
		Todos:     set.Todos,
		Contacts:  set.Contacts,
		Addresses: set.Addresses,
		Directory: directory,
	}, logger)
	set.Orders.RegisterInterceptor(hook.NewWebCustomerHook(directory, accounts, pricing, logger))

	svc := NewCheckoutService(Deps{
		Directory:    directory,
		Pricing:      pricing,
		Contacts:     set.Contacts,
		Addresses:    set.Addresses,
		Prices:       set.Pricing,
		Items:        set.Items,
		Warehouses:   set.Warehouses,
		Companies:    set.Companies,
		PaymentTerms: set.PaymentTerms,
		Settings:     set.Settings,
		Orders:       set.Orders,
		Profiles:     accounts,
	}, logger)
	return &fixture{svc: svc, store: store, set: set}
}

func (f *fixture) seedCatalog() {
	f.store.AddCompany(catalog.Company{Name: "Euro Plast Ltd", DefaultWarehouse: "Main - EP"})
	f.store.AddWarehouse(catalog.Warehouse{Name: "Stores - EP", Company: "Euro Plast Ltd"})
	f.store.AddWarehouse(catalog.Warehouse{Name: "Main - EP", Company: "Euro Plast Ltd"})
	f.store.AddItem(catalog.Item{ItemCode: "BOWL-01", ItemName: "Mixing Bowl", ItemGroup: "Kitchenware", StandardRate: decimal.NewFromInt(12)})
	f.store.AddItem(catalog.Item{ItemCode: "JUG-02", ItemName: "Water Jug", ItemGroup: "Homeware", StandardRate: decimal.NewFromInt(8)})
}

func validRequest() checkout.PlaceOrderRequest {
	return checkout.PlaceOrderRequest{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "+254700000000",
		AddressLine1: "12 Market Road",
		City:         "Nairobi",
		Country:      "Kenya",
		Items: checkout.CartItems{
			{ItemCode: "BOWL-01", Qty: decimal.NewFromInt(2), Rate: decimal.NewFromInt(10)},
		},
	}
}

func TestPlaceOrder_RequiredFieldsInOrder(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.FullName = ""
	req.City = ""

	_, err := f.svc.PlaceOrder(context.Background(), session.Guest("/checkout"), req)
	require.Error(t, err)
	assert.True(t, xerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "full_name")
}

func TestPlaceOrder_EmptyItemsCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	req := validRequest()
	req.Items = nil

	_, err := f.svc.PlaceOrder(context.Background(), session.Guest("/checkout"), req)
	require.Error(t, err)
	assert.True(t, xerrors.IsValidation(err))

	assert.Equal(t, 0, f.store.OrderCount())
	assert.Equal(t, 0, f.store.CustomerCount("jane@example.com"))
	assert.Equal(t, 0, f.store.PriceListCount("Website Price List"))
	assert.Equal(t, 0, f.store.UserCount())
}

func TestPlaceOrder_AllLinesWithoutCodeFail(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	req := validRequest()
	req.Items = checkout.CartItems{{ItemCode: ""}, {ItemCode: "  "}, {ItemCode: "NOT-IN-CATALOG"}}

	_, err := f.svc.PlaceOrder(context.Background(), session.Guest("/checkout"), req)
	require.Error(t, err)
	assert.True(t, xerrors.IsValidation(err))
	assert.Equal(t, "invalid cart items", err.Error())
	assert.Equal(t, 0, f.store.OrderCount())
}

func TestPlaceOrder_FinalizesAndProvisionsAccount(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.store.AddPaymentTerms("Cash on Delivery")
	ctx := context.Background()

	req := validRequest()
	req.Notes = "Leave at the gate"
	req.PaymentMethod = "M-Pesa"
	req.Items = append(req.Items, checkout.CartLine{ItemCode: "", Qty: decimal.NewFromInt(1)})

	res, err := f.svc.PlaceOrder(ctx, session.Guest("/checkout"), req)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, res.Finalized)
	assert.Empty(t, res.Warning)

	o, err := f.set.Orders.FindByID(ctx, res.Order)
	require.NoError(t, err)
	assert.Equal(t, order.StatusFinalized, o.Status)
	assert.True(t, o.IsWebOrder)
	assert.Equal(t, "Individual", o.CustomerGroup)
	assert.Equal(t, "Website Price List", o.SellingPriceList)
	assert.Equal(t, "Euro Plast Ltd", o.Company)
	assert.Equal(t, "Cash on Delivery", o.PaymentTerms)
	assert.Equal(t, "Leave at the gate\nPayment Method: M-Pesa", o.Remarks)
	require.Len(t, o.Items, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(o.GrandTotal))

	user, err := f.set.Users.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, user.SendWelcomeEmail)
	assert.Equal(t, session.UserTypeWebsite, user.UserType)
	assert.Equal(t, 1, f.store.UserCount())
}

func TestPlaceOrder_SubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	// No warehouse rows at all: lines cannot be fulfilled, so submit fails.
	f.store.AddItem(catalog.Item{ItemCode: "BOWL-01", ItemName: "Mixing Bowl", StandardRate: decimal.NewFromInt(12)})
	ctx := context.Background()

	res, err := f.svc.PlaceOrder(ctx, session.Guest("/checkout"), validRequest())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.False(t, res.Finalized)
	assert.NotEmpty(t, res.Warning)

	o, err := f.set.Orders.FindByID(ctx, res.Order)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDraft, o.Status)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestPlaceOrder_AddressesAccumulateUnlessUpdating(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()

	first, err := f.svc.PlaceOrder(ctx, session.Guest("/checkout"), validRequest())
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, session.Guest("/checkout"), validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, first.Order, second.Order)

	cust, err := f.set.Customers.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	linked, err := f.set.Addresses.ListLinked(ctx, customer.LinkTypeCustomer, cust.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.NotEqual(t, linked[0].ID, linked[1].ID)

	req := validRequest()
	req.UpdateAddress = true
	req.City = "Mombasa"
	_, err = f.svc.PlaceOrder(ctx, session.Guest("/checkout"), req)
	require.NoError(t, err)

	after, err := f.set.Addresses.ListLinked(ctx, customer.LinkTypeCustomer, cust.ID)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, linked[0].ID, after[0].ID)
	assert.Equal(t, "Mombasa", after[0].City)
	assert.Equal(t, "Nairobi", after[1].City)
	assert.Equal(t, 1, f.store.CustomerCount("jane@example.com"))
}

func TestPlaceOrder_UpdateAddressCreatesWhenNoneExists(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()

	req := validRequest()
	req.UpdateAddress = true
	_, err := f.svc.PlaceOrder(ctx, session.Guest("/checkout"), req)
	require.NoError(t, err)

	cust, err := f.set.Customers.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	linked, err := f.set.Addresses.ListLinked(ctx, customer.LinkTypeCustomer, cust.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)
}

func TestResolveWarehouse_Cascade(t *testing.T) {
	ctx := context.Background()
	const company = "Euro Plast Ltd"

	t.Run("company default when item has none", func(t *testing.T) {
		f := newFixture(t)
		f.seedCatalog()
		item := &catalog.Item{ItemCode: "BOWL-01"}

		got, err := f.svc.resolveWarehouse(ctx, item, company)
		require.NoError(t, err)
		assert.Equal(t, "Main - EP", got)
	})

	t.Run("item default wins when usable", func(t *testing.T) {
		f := newFixture(t)
		f.seedCatalog()
		f.store.AddWarehouse(catalog.Warehouse{Name: "Shared Depot"})
		item := &catalog.Item{ItemCode: "BOWL-01", DefaultWarehouse: "Shared Depot"}

		got, err := f.svc.resolveWarehouse(ctx, item, company)
		require.NoError(t, err)
		assert.Equal(t, "Shared Depot", got)
	})

	t.Run("item default of another company is skipped", func(t *testing.T) {
		f := newFixture(t)
		f.seedCatalog()
		f.store.AddWarehouse(catalog.Warehouse{Name: "Other - OC", Company: "Other Co"})
		f.store.AddItemDefault(catalog.ItemDefault{ItemCode: "BOWL-01", Company: company, DefaultWarehouse: "Stores - EP"})
		item := &catalog.Item{ItemCode: "BOWL-01", DefaultWarehouse: "Other - OC"}

		got, err := f.svc.resolveWarehouse(ctx, item, company)
		require.NoError(t, err)
		assert.Equal(t, "Stores - EP", got)
	})

	t.Run("store setting before first company warehouse", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddCompany(catalog.Company{Name: company})
		f.store.AddWarehouse(catalog.Warehouse{Name: "Stores - EP", Company: company})
		f.store.AddWarehouse(catalog.Warehouse{Name: "Dispatch - EP", Company: company})
		require.NoError(t, f.set.Settings.Set(ctx, settings.DefaultWarehouse, "Dispatch - EP"))

		got, err := f.svc.resolveWarehouse(ctx, &catalog.Item{ItemCode: "X"}, company)
		require.NoError(t, err)
		assert.Equal(t, "Dispatch - EP", got)
	})

	t.Run("first warehouse anywhere as last resort", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddWarehouse(catalog.Warehouse{Name: "Far Away", Company: "Other Co"})

		got, err := f.svc.resolveWarehouse(ctx, &catalog.Item{ItemCode: "X"}, company)
		require.NoError(t, err)
		assert.Equal(t, "Far Away", got)
	})
}

func TestPlaceOrder_PricesLinesWithoutRate(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.store.SetItemPrice("JUG-02", "Website Price List", decimal.NewFromInt(7))
	ctx := context.Background()

	req := validRequest()
	req.Items = checkout.CartItems{
		{ItemCode: "JUG-02", Qty: decimal.Zero},
		{ItemCode: "BOWL-01", Qty: decimal.NewFromInt(1)},
	}
	res, err := f.svc.PlaceOrder(ctx, session.Guest("/checkout"), req)
	require.NoError(t, err)

	o, err := f.set.Orders.FindByID(ctx, res.Order)
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.True(t, decimal.NewFromInt(1).Equal(o.Items[0].Qty))
	assert.True(t, decimal.NewFromInt(7).Equal(o.Items[0].Rate))
	assert.True(t, decimal.NewFromInt(12).Equal(o.Items[1].Rate))
}

func TestResolvePaymentTerms_Fallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.resolvePaymentTerms(ctx, "Card")
	require.NoError(t, err)
	assert.Empty(t, got)

	f.store.AddPaymentTerms("Cash")
	got, err = f.svc.resolvePaymentTerms(ctx, "Card")
	require.NoError(t, err)
	assert.Equal(t, "Cash", got)

	f.store.AddPaymentTerms("Card")
	got, err = f.svc.resolvePaymentTerms(ctx, "Card")
	require.NoError(t, err)
	assert.Equal(t, "Card", got)
}

func TestPlaceOrder_SyncsProfileForLoggedInCaller(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()
	caller := session.Principal{User: "jane@example.com", UserType: session.UserTypeWebsite}

	_, err := f.svc.PlaceOrder(ctx, caller, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.FullName = "Jane Wanjiru"
	req.Phone = "+254711111111"
	req.UpdateProfile = true
	_, err = f.svc.PlaceOrder(ctx, caller, req)
	require.NoError(t, err)

	contact, err := f.set.Contacts.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Wanjiru", contact.FirstName)
	assert.Equal(t, "+254711111111", contact.Phone)

	profile, err := f.svc.CheckoutProfile(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "Jane Wanjiru", profile.FullName)
	require.NotNil(t, profile.Address)
	assert.Equal(t, "12 Market Road", profile.Address.Line1)
}

func TestCheckoutProfile_GuestIsEmpty(t *testing.T) {
	f := newFixture(t)

	profile, err := f.svc.CheckoutProfile(context.Background(), session.Guest("/checkout"))
	require.NoError(t, err)
	assert.Equal(t, &checkout.Profile{}, profile)
}
