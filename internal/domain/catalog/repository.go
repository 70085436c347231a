// internal/domain/catalog/repository.go
package catalog

import "context"

type ItemRepository interface {
	FindItem(ctx context.Context, itemCode string) (*Item, error)
	// FindItemDefault returns the override for (itemCode, company).
	FindItemDefault(ctx context.Context, itemCode, company string) (*ItemDefault, error)
	ItemGroups(ctx context.Context, itemCodes []string) (map[string]string, error)
	// Categories returns the item groups of website-published items.
	Categories(ctx context.Context, limit int) ([]string, error)
	CodesByCategory(ctx context.Context, category string, limit int) ([]string, error)
}

type WarehouseRepository interface {
	FindWarehouse(ctx context.Context, name string) (*Warehouse, error)
	// FirstWarehouse returns "" when no row matches; company "" means any.
	FirstWarehouse(ctx context.Context, company string) (string, error)
}

type CompanyRepository interface {
	FindCompany(ctx context.Context, name string) (*Company, error)
	FirstCompany(ctx context.Context) (string, error)
}

type PaymentTermsRepository interface {
	TemplateExists(ctx context.Context, name string) (bool, error)
}

type WebsiteItemRepository interface {
	ListPublished(ctx context.Context, filter ListingFilter) ([]WebsiteItem, int, error)
	// FindPublished looks up by route, then by item code.
	FindPublished(ctx context.Context, routeOrCode string) (*WebsiteItem, error)
	// Reviews returns an empty list when the store has no review table.
	Reviews(ctx context.Context, itemCode string, limit int) ([]Review, error)
}
