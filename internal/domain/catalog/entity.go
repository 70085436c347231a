// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Item struct {
	ItemCode           string          `json:"item_code" db:"item_code"`
	ItemName           string          `json:"item_name" db:"item_name"`
	ItemGroup          string          `json:"item_group" db:"item_group"`
	StandardRate       decimal.Decimal `json:"standard_rate" db:"standard_rate"`
	DefaultWarehouse   string          `json:"default_warehouse,omitempty" db:"default_warehouse"`
	PublishedInWebsite bool            `json:"published_in_website" db:"published_in_website"`
}

// ItemDefault is a per-company override of an item's default warehouse.
type ItemDefault struct {
	ItemCode         string `json:"item_code" db:"item_code"`
	Company          string `json:"company" db:"company"`
	DefaultWarehouse string `json:"default_warehouse" db:"default_warehouse"`
}

type Warehouse struct {
	Name    string `json:"name" db:"name"`
	Company string `json:"company,omitempty" db:"company"` // empty: no company restriction
}

// UsableBy reports whether the warehouse may fulfil orders of company.
func (w *Warehouse) UsableBy(company string) bool {
	return company == "" || w.Company == "" || w.Company == company
}

type Company struct {
	Name             string `json:"name" db:"name"`
	DefaultWarehouse string `json:"default_warehouse,omitempty" db:"default_warehouse"`
	DefaultCurrency  string `json:"default_currency,omitempty" db:"default_currency"`
}

type WebsiteItem struct {
	Name               string          `json:"name" db:"name"`
	ItemCode           string          `json:"item_code" db:"item_code"`
	ItemName           string          `json:"item_name" db:"item_name"`
	Route              string          `json:"route,omitempty" db:"route"`
	Thumbnail          string          `json:"thumbnail,omitempty" db:"thumbnail"`
	WebsiteImage       string          `json:"website_image,omitempty" db:"website_image"`
	Image              string          `json:"image,omitempty" db:"image"`
	WebsiteDescription string          `json:"website_description,omitempty" db:"website_description"`
	WebLongDescription string          `json:"web_long_description,omitempty" db:"web_long_description"`
	Description        string          `json:"description,omitempty" db:"description"`
	StandardRate       decimal.Decimal `json:"standard_rate" db:"standard_rate"`
	Published          bool            `json:"published" db:"published"`
	Images             pq.StringArray  `json:"images,omitempty" db:"images"`
	Specifications     []Spec          `json:"website_specifications,omitempty"`
	ModifiedAt         time.Time       `json:"modified" db:"modified_at"`
}

// Spec is one website specification row. Older rows carry
// specification/value instead of label/description.
type Spec struct {
	Label         string `json:"label,omitempty" db:"label"`
	Specification string `json:"specification,omitempty" db:"specification"`
	Description   string `json:"description,omitempty" db:"description"`
	Value         string `json:"value,omitempty" db:"value"`
}

type Review struct {
	CustomerName string    `json:"customer_name" db:"customer_name"`
	Rating       float64   `json:"rating" db:"rating"`
	Review       string    `json:"review" db:"review"`
	CreatedAt    time.Time `json:"creation" db:"created_at"`
}

// ListingFilter selects published website items for the store page.
type ListingFilter struct {
	Query     string
	ItemCodes []string // nil: no restriction
	MinPrice  *float64
	MaxPrice  *float64
	Offset    int
	Limit     int
}
