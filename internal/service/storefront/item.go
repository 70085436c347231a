// internal/service/storefront/item.go
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/domain/storefront"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"
)

const reviewLimit = 6

type highlight struct {
	label    string
	keys     []string
	fallback string
}

var highlights = []highlight{
	{"Materials", []string{"material", "materials", "plastic type"}, "Varies by product"},
	{"Capacity", []string{"capacity", "volume", "size"}, "See specifications"},
	{"Food-safe", []string{"food safe", "food-safe"}, "Available on request"},
	{"BPA-free", []string{"bpa free", "bpa-free"}, "Available on request"},
	{"Dishwasher-safe", []string{"dishwasher safe", "dishwasher-safe"}, "Available on request"},
}

// ItemPage resolves a product by route, then by item code.
func (s *StorefrontService) ItemPage(ctx context.Context, p session.Principal, route string) (*storefront.ItemPage, error) {
	route = strings.TrimSpace(route)
	if route == "" {
		return nil, fmt.Errorf("item: %w", xerrors.ErrNotFound)
	}
	item, err := s.websiteItems.FindPublished(ctx, route)
	if err != nil {
		return nil, err
	}

	specs := Specs(item.Specifications)
	reviews, err := s.websiteItems.Reviews(ctx, item.ItemCode, reviewLimit)
	if err != nil {
		s.logger.Warn("failed to load item reviews", zap.String("item", item.ItemCode), zap.Error(err))
		reviews = nil
	}
	if reviews == nil {
		reviews = []catalog.Review{}
	}

	priceList, err := s.priceListFor(ctx, p)
	if err != nil {
		return nil, err
	}
	price, err := s.itemPrice(ctx, item, priceList)
	if err != nil {
		return nil, err
	}

	return &storefront.ItemPage{
		Title:      item.ItemName,
		Item:       item,
		Gallery:    Gallery(item),
		Specs:      specs,
		Highlights: Highlights(specs),
		Reviews:    reviews,
		PriceList:  priceList,
		Price:      price,
	}, nil
}

// Gallery lists website image, thumbnail, image and gallery rows without
// repeats, in that order.
func Gallery(item *catalog.WebsiteItem) []string {
	candidates := append([]string{item.WebsiteImage, item.Thumbnail, item.Image}, item.Images...)
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, img := range candidates {
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true
		out = append(out, img)
	}
	return out
}

// Specs flattens specification rows; rows with neither label nor value are dropped.
func Specs(rows []catalog.Spec) []storefront.SpecRow {
	out := []storefront.SpecRow{}
	for _, r := range rows {
		label := firstNonEmpty(r.Label, r.Specification)
		value := firstNonEmpty(r.Description, r.Value)
		if label == "" && value == "" {
			continue
		}
		if label == "" {
			label = "Detail"
		}
		out = append(out, storefront.SpecRow{Label: label, Value: value})
	}
	return out
}

// Highlights maps specs onto the fixed highlight rows, matching labels by
// their letters and digits only.
func Highlights(specs []storefront.SpecRow) []storefront.SpecRow {
	byLabel := map[string]string{}
	for _, sp := range specs {
		key := normalizeLabel(sp.Label)
		if key == "" {
			continue
		}
		byLabel[key] = sp.Value
	}

	out := make([]storefront.SpecRow, 0, len(highlights))
	for _, h := range highlights {
		value := h.fallback
		for _, k := range h.keys {
			if v := byLabel[normalizeLabel(k)]; v != "" {
				value = v
				break
			}
		}
		out = append(out, storefront.SpecRow{Label: h.label, Value: value})
	}
	return out
}

func normalizeLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// priceListFor returns the selling price list a visitor sees: Commercial
// customers get Standard Selling, everyone else the website list, falling
// back to Standard Selling and then to any selling list.
func (s *StorefrontService) priceListFor(ctx context.Context, p session.Principal) (string, error) {
	if !p.IsGuest() {
		commercial, err := s.isCommercial(ctx, p.User)
		if err != nil {
			return "", err
		}
		if commercial {
			ok, err := s.prices.PriceListExists(ctx, pricing.PriceListStandardSelling)
			if err != nil {
				return "", fmt.Errorf("failed to check price list: %w", err)
			}
			if ok {
				return pricing.PriceListStandardSelling, nil
			}
		}
	}
	for _, name := range []string{pricing.PriceListWebsite, pricing.PriceListStandardSelling} {
		ok, err := s.prices.PriceListExists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to check price list: %w", err)
		}
		if ok {
			return name, nil
		}
	}
	name, err := s.prices.FirstSellingPriceList(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to look up price list: %w", err)
	}
	return name, nil
}

func (s *StorefrontService) isCommercial(ctx context.Context, email string) (bool, error) {
	customerID, err := s.directory.CustomerForUser(ctx, email)
	if errors.Is(err, xerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c, err := s.customers.FindByID(ctx, customerID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load customer: %w", err)
	}
	return c.CustomerGroup == pricing.GroupCommercial, nil
}

// itemPrice is the list rate, else the standard rate. A zero list rate
// counts as unpriced.
func (s *StorefrontService) itemPrice(ctx context.Context, item *catalog.WebsiteItem, priceList string) (decimal.Decimal, error) {
	if item.ItemCode != "" && priceList != "" {
		rate, ok, err := s.prices.ItemPrice(ctx, item.ItemCode, priceList)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to price item: %w", err)
		}
		if ok && !rate.IsZero() {
			return rate, nil
		}
	}
	return item.StandardRate, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
