// internal/repository/memory/catalog.go
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/catalog"
	xerrors "storefront-service/internal/pkg/errors"
)

type itemRepo struct{ s *Store }

func (r *itemRepo) FindItem(ctx context.Context, itemCode string) (*catalog.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[itemCode]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &it, nil
}

func (r *itemRepo) FindItemDefault(ctx context.Context, itemCode, company string) (*catalog.ItemDefault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.itemDefaults[itemDefaultKey{itemCode, company}]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &d, nil
}

func (r *itemRepo) ItemGroups(ctx context.Context, itemCodes []string) (map[string]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]string, len(itemCodes))
	for _, code := range itemCodes {
		if it, ok := r.s.items[code]; ok {
			out[code] = it.ItemGroup
		}
	}
	return out, nil
}

func (r *itemRepo) Categories(ctx context.Context, limit int) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, it := range r.s.items {
		if !it.PublishedInWebsite || it.ItemGroup == "" || seen[it.ItemGroup] {
			continue
		}
		seen[it.ItemGroup] = true
		out = append(out, it.ItemGroup)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *itemRepo) CodesByCategory(ctx context.Context, category string, limit int) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for code, it := range r.s.items {
		if it.PublishedInWebsite && it.ItemGroup == category {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) FindWarehouse(ctx context.Context, name string) (*catalog.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if w.Name == name {
			out := w
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *warehouseRepo) FirstWarehouse(ctx context.Context, company string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if company == "" || w.Company == company {
			return w.Name, nil
		}
	}
	return "", nil
}

type companyRepo struct{ s *Store }

func (r *companyRepo) FindCompany(ctx context.Context, name string) (*catalog.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *companyRepo) FirstCompany(ctx context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.companies) == 0 {
		return "", nil
	}
	return r.s.companies[0].Name, nil
}

type paymentTermsRepo struct{ s *Store }

func (r *paymentTermsRepo) TemplateExists(ctx context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.paymentTerms[name], nil
}

type websiteItemRepo struct{ s *Store }

func (r *websiteItemRepo) ListPublished(ctx context.Context, f catalog.ListingFilter) ([]catalog.WebsiteItem, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var codes map[string]bool
	if f.ItemCodes != nil {
		codes = make(map[string]bool, len(f.ItemCodes))
		for _, c := range f.ItemCodes {
			codes[c] = true
		}
	}
	q := strings.ToLower(f.Query)

	var matched []catalog.WebsiteItem
	for _, w := range r.s.websiteItems {
		if !w.Published {
			continue
		}
		if codes != nil && !codes[w.ItemCode] {
			continue
		}
		if f.MinPrice != nil && w.StandardRate.LessThan(decimal.NewFromFloat(*f.MinPrice)) {
			continue
		}
		if f.MaxPrice != nil && w.StandardRate.GreaterThan(decimal.NewFromFloat(*f.MaxPrice)) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(w.ItemName), q) &&
			!strings.Contains(strings.ToLower(w.WebsiteDescription), q) &&
			!strings.Contains(strings.ToLower(w.WebLongDescription), q) {
			continue
		}
		matched = append(matched, copyWebsiteItem(w))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ModifiedAt.After(matched[j].ModifiedAt)
	})

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return matched[start:end], total, nil
}

func (r *websiteItemRepo) FindPublished(ctx context.Context, routeOrCode string) (*catalog.WebsiteItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.websiteItems {
		if w.Published && w.Route != "" && w.Route == routeOrCode {
			out := copyWebsiteItem(w)
			return &out, nil
		}
	}
	for _, w := range r.s.websiteItems {
		if w.Published && w.ItemCode == routeOrCode {
			out := copyWebsiteItem(w)
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *websiteItemRepo) Reviews(ctx context.Context, itemCode string, limit int) ([]catalog.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.reviewsTable {
		return []catalog.Review{}, nil
	}
	rows := append([]catalog.Review(nil), r.s.reviews[itemCode]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func copyWebsiteItem(w catalog.WebsiteItem) catalog.WebsiteItem {
	w.Images = append([]string(nil), w.Images...)
	w.Specifications = append([]catalog.Spec(nil), w.Specifications...)
	return w
}
