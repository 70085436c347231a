// internal/service/storefront/listing.go
package storefront

import (
	"context"
	"fmt"

	"storefront-service/internal/domain/cart"
	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/storefront"
)

const (
	categoryLimit     = 500
	categoryCodeLimit = 1000
)

// StoreListing returns one page of published products plus the category
// list and the visitor's cart.
func (s *StorefrontService) StoreListing(ctx context.Context, q storefront.ListingQuery, cartID string) (*storefront.Listing, error) {
	categories, err := s.items.Categories(ctx, categoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}

	products, total, err := s.products(ctx, q)
	if err != nil {
		return nil, err
	}

	summary := cart.Summary{Items: []cart.QuotationItem{}}
	if s.carts != nil {
		summary = s.carts.Summary(ctx, cartID)
	}

	return &storefront.Listing{
		Title:         "Store",
		Filters:       q.Filters,
		Page:          q.Page,
		PageSize:      q.PageSize,
		Categories:    categories,
		Products:      products,
		TotalProducts: total,
		TotalPages:    max(1, (total+q.PageSize-1)/q.PageSize),
		Cart:          summary,
	}, nil
}

func (s *StorefrontService) products(ctx context.Context, q storefront.ListingQuery) ([]catalog.WebsiteItem, int, error) {
	filter := catalog.ListingFilter{
		Query:    q.Filters.Q,
		MinPrice: q.Filters.MinPrice,
		MaxPrice: q.Filters.MaxPrice,
		Offset:   (q.Page - 1) * q.PageSize,
		Limit:    q.PageSize,
	}
	if q.Filters.Category != "" {
		codes, err := s.items.CodesByCategory(ctx, q.Filters.Category, categoryCodeLimit)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve category: %w", err)
		}
		if len(codes) == 0 {
			return []catalog.WebsiteItem{}, 0, nil
		}
		filter.ItemCodes = codes
	}

	products, total, err := s.websiteItems.ListPublished(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []catalog.WebsiteItem{}
	}
	return products, total, nil
}
