// internal/domain/settings/entity.go
package settings

import "context"

// Well-known store-wide setting keys.
const (
	DefaultCompany   = "default_company"
	DefaultCurrency  = "default_currency"
	DefaultWarehouse = "default_warehouse"
	BrandImage       = "brand_image"
)

type Repository interface {
	// Get returns "" for an unset key.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
