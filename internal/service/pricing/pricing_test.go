package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/domain/settings"
	"storefront-service/internal/repository/memory"
)

func newService(t *testing.T) (*PricingService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	set := store.Set()
	return NewPricingService(set.Pricing, set.Settings, "EUR", zap.NewNop()), store
}

func TestGroupAndPrice_Wholesale(t *testing.T) {
	svc, store := newService(t)

	policy, err := svc.GroupAndPrice(context.Background(), customer.Wholesale)
	require.NoError(t, err)
	assert.Equal(t, pricing.Policy{CustomerGroup: "Commercial", PriceList: "Standard Selling", CustomerType: "Company"}, policy)
	assert.Equal(t, 1, store.GroupCount("Commercial"))
	assert.Equal(t, 1, store.PriceListCount("Standard Selling"))
}

func TestGroupAndPrice_AnythingElseIsRetail(t *testing.T) {
	svc, _ := newService(t)
	want := pricing.Policy{CustomerGroup: "Individual", PriceList: "Website Price List", CustomerType: "Individual"}

	for _, c := range []customer.Classification{customer.Retail, "", "wholesale", "Trader"} {
		policy, err := svc.GroupAndPrice(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, want, policy, "classification %q", c)
	}
}

func TestGroupAndPrice_RepeatedCallsNeverDuplicate(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_, err := svc.GroupAndPrice(ctx, customer.Wholesale)
		require.NoError(t, err)
		_, err = svc.GroupAndPrice(ctx, customer.Retail)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.GroupCount("Commercial"))
	assert.Equal(t, 1, store.GroupCount("Individual"))
	assert.Equal(t, 1, store.PriceListCount("Standard Selling"))
	assert.Equal(t, 1, store.PriceListCount("Website Price List"))
}

func TestCurrency_Cascade(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	set := store.Set()

	assert.Equal(t, "USD", NewPricingService(set.Pricing, set.Settings, "", zap.NewNop()).Currency(ctx))
	assert.Equal(t, "EUR", NewPricingService(set.Pricing, set.Settings, "EUR", zap.NewNop()).Currency(ctx))

	require.NoError(t, set.Settings.Set(ctx, settings.DefaultCurrency, "KES"))
	assert.Equal(t, "KES", NewPricingService(set.Pricing, set.Settings, "EUR", zap.NewNop()).Currency(ctx))
}

func TestApplyToOrder_KeepsExistingValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	o := &order.Order{CustomerGroup: "Staff"}
	require.NoError(t, svc.ApplyToOrder(ctx, o, customer.Retail))
	assert.Equal(t, "Staff", o.CustomerGroup)
	assert.Equal(t, "Website Price List", o.SellingPriceList)
}
