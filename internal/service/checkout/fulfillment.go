// internal/service/checkout/fulfillment.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/settings"
	xerrors "storefront-service/internal/pkg/errors"
)

// Payment terms tried after the caller's own method.
var fallbackPaymentTerms = []string{"Cash on Delivery", "Cash"}

// resolveCompany returns the configured default company, else the first one.
func (s *CheckoutService) resolveCompany(ctx context.Context) (string, error) {
	name, err := s.settings.Get(ctx, settings.DefaultCompany)
	if err != nil {
		return "", fmt.Errorf("failed to read default company: %w", err)
	}
	if name != "" {
		return name, nil
	}
	name, err = s.companies.FirstCompany(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to look up company: %w", err)
	}
	return name, nil
}

// resolveWarehouse walks the fulfillment cascade and returns the first
// candidate that exists and is usable by company. It returns "" only when
// no warehouse exists at all.
func (s *CheckoutService) resolveWarehouse(ctx context.Context, item *catalog.Item, company string) (string, error) {
	candidates := []func(context.Context) (string, error){
		func(context.Context) (string, error) { return item.DefaultWarehouse, nil },
		func(ctx context.Context) (string, error) {
			if company == "" {
				return "", nil
			}
			d, err := s.items.FindItemDefault(ctx, item.ItemCode, company)
			if errors.Is(err, xerrors.ErrNotFound) {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			return d.DefaultWarehouse, nil
		},
		func(ctx context.Context) (string, error) {
			if company == "" {
				return "", nil
			}
			c, err := s.companies.FindCompany(ctx, company)
			if errors.Is(err, xerrors.ErrNotFound) {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			return c.DefaultWarehouse, nil
		},
		func(ctx context.Context) (string, error) {
			return s.settings.Get(ctx, settings.DefaultWarehouse)
		},
		func(ctx context.Context) (string, error) {
			if company == "" {
				return "", nil
			}
			return s.warehouses.FirstWarehouse(ctx, company)
		},
	}

	for _, next := range candidates {
		name, err := next(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to resolve warehouse for %s: %w", item.ItemCode, err)
		}
		ok, err := s.usableWarehouse(ctx, name, company)
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}

	name, err := s.warehouses.FirstWarehouse(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to resolve warehouse for %s: %w", item.ItemCode, err)
	}
	return name, nil
}

func (s *CheckoutService) usableWarehouse(ctx context.Context, name, company string) (bool, error) {
	if name == "" {
		return false, nil
	}
	w, err := s.warehouses.FindWarehouse(ctx, name)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load warehouse %s: %w", name, err)
	}
	return w.UsableBy(company), nil
}

// resolvePaymentTerms returns the first existing template among the
// requested method and the cash fallbacks, or "".
func (s *CheckoutService) resolvePaymentTerms(ctx context.Context, method string) (string, error) {
	for _, name := range append([]string{method}, fallbackPaymentTerms...) {
		if name == "" {
			continue
		}
		ok, err := s.paymentTerms.TemplateExists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to check payment terms %s: %w", name, err)
		}
		if ok {
			return name, nil
		}
	}
	return "", nil
}
