// internal/domain/pricing/entity.go
package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Fixed reference names.
const (
	GroupCommercial = "Commercial"
	GroupIndividual = "Individual"

	PriceListStandardSelling = "Standard Selling"
	PriceListWebsite         = "Website Price List"

	FallbackCurrency = "USD"
)

type CustomerGroup struct {
	Name string `json:"customer_group_name" db:"name"`
}

type PriceList struct {
	Name     string `json:"price_list_name" db:"name"`
	Selling  bool   `json:"selling" db:"selling"`
	Currency string `json:"currency" db:"currency"`
}

// Policy is the outcome of the classification mapping.
type Policy struct {
	CustomerGroup string `json:"customer_group"`
	PriceList     string `json:"price_list"`
	CustomerType  string `json:"customer_type"`
}

type Repository interface {
	GroupExists(ctx context.Context, name string) (bool, error)
	CreateGroup(ctx context.Context, g *CustomerGroup) error
	PriceListExists(ctx context.Context, name string) (bool, error)
	CreatePriceList(ctx context.Context, p *PriceList) error
	// FirstSellingPriceList returns "" when no selling list exists.
	FirstSellingPriceList(ctx context.Context) (string, error)
	// ItemPrice returns the selling rate of itemCode on priceList.
	ItemPrice(ctx context.Context, itemCode, priceList string) (decimal.Decimal, bool, error)
}
