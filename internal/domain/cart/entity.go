// internal/domain/cart/entity.go
package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quotation is the open shopping cart of one visitor.
type Quotation struct {
	CartID     string          `json:"name"`
	Items      []QuotationItem `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	UpdatedAt  time.Time       `json:"modified"`
}

type QuotationItem struct {
	ItemCode string          `json:"item_code"`
	ItemName string          `json:"item_name"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// Recalculate refreshes amounts and drops lines with no quantity.
func (q *Quotation) Recalculate() {
	total := decimal.Zero
	kept := q.Items[:0]
	for _, it := range q.Items {
		if !it.Qty.IsPositive() {
			continue
		}
		it.Amount = it.Qty.Mul(it.Rate)
		total = total.Add(it.Amount)
		kept = append(kept, it)
	}
	q.Items = kept
	q.GrandTotal = total
}

type UpdateCartRequest struct {
	ItemCode string           `json:"item_code"`
	Qty      *decimal.Decimal `json:"qty"`
}

// Quantity is the requested qty, 1 when omitted.
func (r UpdateCartRequest) Quantity() decimal.Decimal {
	if r.Qty == nil {
		return decimal.NewFromInt(1)
	}
	return *r.Qty
}

// Store is an installed cart implementation.
type Store interface {
	Get(ctx context.Context, cartID string) (*Quotation, error)
	Save(ctx context.Context, q *Quotation) error
}

// Summary is the cart block shown on store pages.
type Summary struct {
	Items      []QuotationItem `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
