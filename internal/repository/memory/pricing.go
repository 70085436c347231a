// internal/repository/memory/pricing.go
package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/pricing"
	xerrors "storefront-service/internal/pkg/errors"
)

type pricingRepo struct{ s *Store }

func (r *pricingRepo) GroupExists(ctx context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.groups[name], nil
}

func (r *pricingRepo) CreateGroup(ctx context.Context, g *pricing.CustomerGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.groups[g.Name] {
		return fmt.Errorf("customer group %s: %w", g.Name, xerrors.ErrConflict)
	}
	r.s.groups[g.Name] = true
	return nil
}

func (r *pricingRepo) PriceListExists(ctx context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.priceLists {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *pricingRepo) CreatePriceList(ctx context.Context, p *pricing.PriceList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.priceLists {
		if existing.Name == p.Name {
			return fmt.Errorf("price list %s: %w", p.Name, xerrors.ErrConflict)
		}
	}
	r.s.priceLists = append(r.s.priceLists, *p)
	return nil
}

func (r *pricingRepo) FirstSellingPriceList(ctx context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.priceLists {
		if p.Selling {
			return p.Name, nil
		}
	}
	return "", nil
}

func (r *pricingRepo) ItemPrice(ctx context.Context, itemCode, priceList string) (decimal.Decimal, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rate, ok := r.s.itemPrices[priceKey{itemCode, priceList}]
	return rate, ok, nil
}

// GroupCount and PriceListCount report reference rows by name. Test helpers.
func (s *Store) GroupCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groups[name] {
		return 1
	}
	return 0
}

func (s *Store) PriceListCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.priceLists {
		if p.Name == name {
			n++
		}
	}
	return n
}
