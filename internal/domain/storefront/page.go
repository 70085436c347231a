// internal/domain/storefront/page.go
package storefront

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/cart"
	"storefront-service/internal/domain/catalog"
)

// Listing page sizes.
const (
	MinPageSize     = 12
	MaxPageSize     = 48
	DefaultPageSize = 24
)

// Site is the context shared by every storefront page.
type Site struct {
	BrandImage      string `json:"brand_image"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaImage       string `json:"meta_image"`
	MetaURL         string `json:"meta_url"`
	SchemaJSON      string `json:"schema_json"`
}

type Home struct {
	Featured *catalog.WebsiteItem `json:"featured"`
}

type Filters struct {
	Q        string   `json:"q"`
	Category string   `json:"category"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
}

// ListingQuery is a parsed store listing request.
type ListingQuery struct {
	Filters  Filters
	Page     int
	PageSize int
}

// ParseListingQuery reads raw query parameters. Unparseable numbers fall
// back to their defaults instead of failing the page.
func ParseListingQuery(q, category, minPrice, maxPrice, page, pageSize string) ListingQuery {
	out := ListingQuery{
		Filters: Filters{
			Q:        strings.TrimSpace(q),
			Category: strings.TrimSpace(category),
			MinPrice: parseFloat(minPrice),
			MaxPrice: parseFloat(maxPrice),
		},
		Page:     1,
		PageSize: DefaultPageSize,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 1 {
		out.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(pageSize)); err == nil {
		out.PageSize = min(MaxPageSize, max(MinPageSize, n))
	}
	return out
}

func parseFloat(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &v
}

type Listing struct {
	Title         string                `json:"title"`
	Filters       Filters               `json:"filters"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
	Categories    []string              `json:"categories"`
	Products      []catalog.WebsiteItem `json:"products"`
	TotalProducts int                   `json:"total_products"`
	TotalPages    int                   `json:"total_pages"`
	Cart          cart.Summary          `json:"cart"`
}

// SpecRow is a label/value pair shown on the item page.
type SpecRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ItemPage struct {
	Title      string               `json:"title"`
	Item       *catalog.WebsiteItem `json:"item"`
	Gallery    []string             `json:"gallery"`
	Specs      []SpecRow            `json:"specs"`
	Highlights []SpecRow            `json:"highlights"`
	Reviews    []catalog.Review     `json:"reviews"`
	PriceList  string               `json:"price_list"`
	Price      decimal.Decimal      `json:"price"`
}

// Redirect is the outcome of a page guard. An empty RedirectTo renders the page.
type Redirect struct {
	Page       string `json:"page"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
