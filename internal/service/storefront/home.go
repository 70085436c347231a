// internal/service/storefront/home.go
package storefront

import (
	"context"
	"fmt"
	"sort"
	"time"

	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/storefront"
)

const featuredPoolSize = 500

// Ordinal of 1970-01-01 counting 0001-01-01 as day 1.
const unixEpochOrdinal = 719163

// HomeContext picks today's featured item: the category is chosen by the
// day ordinal, the item at random within it.
func (s *StorefrontService) HomeContext(ctx context.Context) (*storefront.Home, error) {
	items, _, err := s.websiteItems.ListPublished(ctx, catalog.ListingFilter{Limit: featuredPoolSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list website items: %w", err)
	}
	if len(items) == 0 {
		return &storefront.Home{}, nil
	}

	codes := make([]string, 0, len(items))
	for _, it := range items {
		if it.ItemCode != "" {
			codes = append(codes, it.ItemCode)
		}
	}
	groups := map[string]string{}
	if len(codes) > 0 {
		groups, err = s.items.ItemGroups(ctx, codes)
		if err != nil {
			return nil, fmt.Errorf("failed to load item groups: %w", err)
		}
	}

	seen := map[string]bool{}
	var categories []string
	for _, g := range groups {
		if g != "" && !seen[g] {
			seen[g] = true
			categories = append(categories, g)
		}
	}
	if len(categories) == 0 {
		return &storefront.Home{Featured: s.pick(items)}, nil
	}
	sort.Strings(categories)

	category := categories[dayOrdinal(s.now())%len(categories)]
	var filtered []catalog.WebsiteItem
	for _, it := range items {
		if groups[it.ItemCode] == category {
			filtered = append(filtered, it)
		}
	}
	if len(filtered) == 0 {
		filtered = items
	}
	return &storefront.Home{Featured: s.pick(filtered)}, nil
}

func (s *StorefrontService) pick(items []catalog.WebsiteItem) *catalog.WebsiteItem {
	if len(items) == 0 {
		return nil
	}
	it := items[s.intn(len(items))]
	return &it
}

func dayOrdinal(t time.Time) int {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return unixEpochOrdinal + int(midnight.Unix()/86400)
}
