// internal/service/cart/cart.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-service/internal/domain/cart"
	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/pricing"
	xerrors "storefront-service/internal/pkg/errors"
)

// Registry holds the cart implementation installed at startup, if any.
type Registry struct {
	store cart.Store
}

func NewRegistry(store cart.Store) *Registry {
	return &Registry{store: store}
}

// Resolve reports the installed store.
func (r *Registry) Resolve() (cart.Store, bool) {
	if r == nil || r.store == nil {
		return nil, false
	}
	return r.store, true
}

type CartService struct {
	registry *Registry
	items    catalog.ItemRepository
	prices   pricing.Repository
	logger   *zap.Logger
}

func NewCartService(registry *Registry, items catalog.ItemRepository, prices pricing.Repository, logger *zap.Logger) *CartService {
	return &CartService{registry: registry, items: items, prices: prices, logger: logger}
}

// UpdateCart sets the quantity of itemCode in the cart. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateCart(ctx context.Context, cartID, itemCode string, qty decimal.Decimal) (*cart.Quotation, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return nil, xerrors.Validation("Missing item_code")
	}
	store, ok := s.registry.Resolve()
	if !ok {
		return nil, fmt.Errorf("shopping cart module not available: %w", xerrors.ErrUnavailable)
	}

	item, err := s.items.FindItem(ctx, itemCode)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Validation("Item %s does not exist", itemCode)
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	q, err := store.Get(ctx, cartID)
	if errors.Is(err, xerrors.ErrNotFound) {
		q, err = &cart.Quotation{CartID: cartID}, nil
	}
	if err != nil {
		return nil, err
	}

	rate, err := s.rate(ctx, item)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range q.Items {
		if q.Items[i].ItemCode == itemCode {
			q.Items[i].Qty = qty
			q.Items[i].Rate = rate
			found = true
			break
		}
	}
	if !found {
		q.Items = append(q.Items, cart.QuotationItem{
			ItemCode: item.ItemCode,
			ItemName: item.ItemName,
			Qty:      qty,
			Rate:     rate,
		})
	}
	q.Recalculate()

	if err := store.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *CartService) rate(ctx context.Context, item *catalog.Item) (decimal.Decimal, error) {
	rate, ok, err := s.prices.ItemPrice(ctx, item.ItemCode, pricing.PriceListWebsite)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to price item %s: %w", item.ItemCode, err)
	}
	if ok {
		return rate, nil
	}
	return item.StandardRate, nil
}

// Summary returns the cart lines and total. Any failure reads as an empty cart.
func (s *CartService) Summary(ctx context.Context, cartID string) cart.Summary {
	empty := cart.Summary{Items: []cart.QuotationItem{}, GrandTotal: decimal.Zero}
	store, ok := s.registry.Resolve()
	if !ok || cartID == "" {
		return empty
	}
	q, err := store.Get(ctx, cartID)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNotFound) {
			s.logger.Warn("failed to load cart summary", zap.Error(err))
		}
		return empty
	}
	items := q.Items
	if items == nil {
		items = []cart.QuotationItem{}
	}
	return cart.Summary{Items: items, GrandTotal: q.GrandTotal}
}
