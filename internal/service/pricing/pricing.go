// internal/service/pricing/pricing.go
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/domain/settings"
	xerrors "storefront-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// PricingService maps a customer classification to its group and price list,
// creating the reference rows on first use.
type PricingService struct {
	repo            pricing.Repository
	settings        settings.Repository
	defaultCurrency string
	logger          *zap.Logger
}

func NewPricingService(repo pricing.Repository, settingsRepo settings.Repository, defaultCurrency string, logger *zap.Logger) *PricingService {
	return &PricingService{
		repo:            repo,
		settings:        settingsRepo,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// PolicyFor is the fixed classification mapping without side effects.
func PolicyFor(c customer.Classification) pricing.Policy {
	if c == customer.Wholesale {
		return pricing.Policy{
			CustomerGroup: pricing.GroupCommercial,
			PriceList:     pricing.PriceListStandardSelling,
			CustomerType:  customer.TypeCompany,
		}
	}
	return pricing.Policy{
		CustomerGroup: pricing.GroupIndividual,
		PriceList:     pricing.PriceListWebsite,
		CustomerType:  customer.TypeIndividual,
	}
}

// GroupAndPrice returns the policy for c after making sure its customer
// group and selling price list exist.
func (s *PricingService) GroupAndPrice(ctx context.Context, c customer.Classification) (pricing.Policy, error) {
	policy := PolicyFor(c)

	if err := s.ensureGroup(ctx, policy.CustomerGroup); err != nil {
		return pricing.Policy{}, err
	}
	if err := s.ensurePriceList(ctx, policy.PriceList); err != nil {
		return pricing.Policy{}, err
	}
	return policy, nil
}

// ApplyToOrder fills the order's customer group and selling price list
// from the policy, leaving values that are already set.
func (s *PricingService) ApplyToOrder(ctx context.Context, o *order.Order, c customer.Classification) error {
	policy, err := s.GroupAndPrice(ctx, c)
	if err != nil {
		return err
	}
	if o.CustomerGroup == "" {
		o.CustomerGroup = policy.CustomerGroup
	}
	if o.SellingPriceList == "" {
		o.SellingPriceList = policy.PriceList
	}
	return nil
}

// Currency is the store-wide default currency.
func (s *PricingService) Currency(ctx context.Context) string {
	if s.settings != nil {
		if v, err := s.settings.Get(ctx, settings.DefaultCurrency); err == nil && strings.TrimSpace(v) != "" {
			return v
		} else if err != nil {
			s.logger.Warn("failed to read default currency", zap.Error(err))
		}
	}
	if s.defaultCurrency != "" {
		return s.defaultCurrency
	}
	return pricing.FallbackCurrency
}

func (s *PricingService) ensureGroup(ctx context.Context, name string) error {
	exists, err := s.repo.GroupExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check customer group %s: %w", name, err)
	}
	if exists {
		return nil
	}
	err = s.repo.CreateGroup(ctx, &pricing.CustomerGroup{Name: name})
	if err != nil && !errors.Is(err, xerrors.ErrConflict) {
		return fmt.Errorf("failed to create customer group %s: %w", name, err)
	}
	if err == nil {
		s.logger.Info("customer group created", zap.String("customer_group", name))
	}
	return nil
}

func (s *PricingService) ensurePriceList(ctx context.Context, name string) error {
	exists, err := s.repo.PriceListExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check price list %s: %w", name, err)
	}
	if exists {
		return nil
	}
	currency := s.Currency(ctx)
	err = s.repo.CreatePriceList(ctx, &pricing.PriceList{Name: name, Selling: true, Currency: currency})
	if err != nil && !errors.Is(err, xerrors.ErrConflict) {
		return fmt.Errorf("failed to create price list %s: %w", name, err)
	}
	if err == nil {
		s.logger.Info("price list created",
			zap.String("price_list", name),
			zap.String("currency", currency),
		)
	}
	return nil
}
