// internal/domain/order/entity.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
)

// Order is the sales transaction. The optional identity fields mirror what
// different entry points populate; the interceptor reads the first populated one.
type Order struct {
	ID                  string          `json:"name" db:"id"`
	Customer            string          `json:"customer" db:"customer"`
	CustomerName        string          `json:"customer_name" db:"customer_name"`
	CustomerGroup       string          `json:"customer_group,omitempty" db:"customer_group"`
	SellingPriceList    string          `json:"selling_price_list,omitempty" db:"selling_price_list"`
	Company             string          `json:"company,omitempty" db:"company"`
	Currency            string          `json:"currency,omitempty" db:"currency"`
	ContactEmail        string          `json:"contact_email,omitempty" db:"contact_email"`
	BillingEmail        string          `json:"email_id,omitempty" db:"email_id"`
	CustomerEmail       string          `json:"customer_email,omitempty" db:"customer_email"`
	ContactDisplay      string          `json:"contact_display,omitempty" db:"contact_display"`
	ContactPerson       string          `json:"contact_person,omitempty" db:"contact_person"`
	ShippingAddressName string          `json:"shipping_address_name,omitempty" db:"shipping_address_name"`
	CustomerAddress     string          `json:"customer_address,omitempty" db:"customer_address"`
	PaymentTerms        string          `json:"payment_terms_template,omitempty" db:"payment_terms_template"`
	Remarks             string          `json:"remarks,omitempty" db:"remarks"`
	IsWebOrder          bool            `json:"is_webshop" db:"is_web_order"`
	Status              Status          `json:"status" db:"status"`
	TransactionDate     time.Time       `json:"transaction_date" db:"transaction_date"`
	DeliveryDate        time.Time       `json:"delivery_date" db:"delivery_date"`
	GrandTotal          decimal.Decimal `json:"grand_total" db:"grand_total"`
	Items               []Item          `json:"items"`
	CreatedAt           time.Time       `json:"creation" db:"created_at"`
	UpdatedAt           time.Time       `json:"modified" db:"updated_at"`
}

type Item struct {
	ItemCode  string          `json:"item_code" db:"item_code"`
	ItemName  string          `json:"item_name,omitempty" db:"item_name"`
	Qty       decimal.Decimal `json:"qty" db:"qty"`
	Rate      decimal.Decimal `json:"rate" db:"rate"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Warehouse string          `json:"warehouse" db:"warehouse"`
}

// Recalculate refreshes line amounts and the grand total.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].Amount = o.Items[i].Qty.Mul(o.Items[i].Rate)
		total = total.Add(o.Items[i].Amount)
	}
	o.GrandTotal = total
}

// ValidateForSubmit is the rule set a draft must meet to be finalized.
func (o *Order) ValidateForSubmit() error {
	if o.Status == StatusFinalized {
		return fmt.Errorf("order %s is already submitted", o.ID)
	}
	if o.Customer == "" {
		return fmt.Errorf("customer is required")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order has no items")
	}
	for i, it := range o.Items {
		if !it.Qty.IsPositive() {
			return fmt.Errorf("row %d: quantity must be positive", i+1)
		}
		if it.Rate.IsNegative() {
			return fmt.Errorf("row %d: rate cannot be negative", i+1)
		}
		if it.Warehouse == "" {
			return fmt.Errorf("row %d: warehouse is required for item %s", i+1, it.ItemCode)
		}
	}
	return nil
}

// Interceptor runs synchronously before an order is written. It may mutate
// the draft; a returned error rejects the insert.
type Interceptor interface {
	BeforeInsert(ctx context.Context, o *Order) error
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ctx context.Context, o *Order) error

func (f InterceptorFunc) BeforeInsert(ctx context.Context, o *Order) error {
	return f(ctx, o)
}

// InterceptorChain runs interceptors in registration order.
type InterceptorChain []Interceptor

func (c InterceptorChain) BeforeInsert(ctx context.Context, o *Order) error {
	for _, in := range c {
		if err := in.BeforeInsert(ctx, o); err != nil {
			return fmt.Errorf("order rejected: %w", err)
		}
	}
	return nil
}

type Repository interface {
	// Insert runs the registered interceptors, then writes the order as a draft.
	Insert(ctx context.Context, o *Order) error
	// Submit finalizes a draft; the draft stays untouched on failure.
	Submit(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Order, error)
	// ListByCustomer returns the newest orders first.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]Order, error)
	// RegisterInterceptor adds a pre-insert interceptor.
	RegisterInterceptor(in Interceptor)
}
