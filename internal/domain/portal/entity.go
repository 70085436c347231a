// internal/domain/portal/entity.go
package portal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderSummary struct {
	Name            string          `json:"name"`
	TransactionDate time.Time       `json:"transaction_date"`
	Status          string          `json:"status"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

type Invoice struct {
	Name              string          `json:"name" db:"id"`
	PostingDate       time.Time       `json:"posting_date" db:"posting_date"`
	Status            string          `json:"status" db:"status"`
	GrandTotal        decimal.Decimal `json:"grand_total" db:"grand_total"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount" db:"outstanding_amount"`
}

type Payment struct {
	Name        string          `json:"name" db:"id"`
	PostingDate time.Time       `json:"posting_date" db:"posting_date"`
	Status      string          `json:"status" db:"status"`
	PaidAmount  decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Currency    string          `json:"paid_to_account_currency" db:"currency"`
}

type Totals struct {
	Orders      decimal.Decimal `json:"order_total"`
	Invoiced    decimal.Decimal `json:"invoice_total"`
	Outstanding decimal.Decimal `json:"outstanding_total"`
	Paid        decimal.Decimal `json:"payments_total"`
}

// Dashboard is the customer portal page. Customer is empty when the login
// has no customer record yet.
type Dashboard struct {
	Customer         string         `json:"customer"`
	CustomerName     string         `json:"customer_name"`
	WholesalePending bool           `json:"pending_trader"`
	Orders           []OrderSummary `json:"orders"`
	Invoices         []Invoice      `json:"invoices"`
	Payments         []Payment      `json:"payments"`
	Totals           Totals         `json:"summary"`
}

// Repository reads the accounting records the storefront only displays.
type Repository interface {
	Invoices(ctx context.Context, customerID string, limit int) ([]Invoice, error)
	Payments(ctx context.Context, customerID string, limit int) ([]Payment, error)
}
