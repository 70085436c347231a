// internal/service/storefront/portal.go
package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/portal"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"
)

const portalListLimit = 20

// PortalDashboard gathers the caller's recent orders, invoices and payments.
// A login without a customer record gets an empty dashboard.
func (s *StorefrontService) PortalDashboard(ctx context.Context, p session.Principal) (*portal.Dashboard, error) {
	if p.IsGuest() {
		return nil, xerrors.ErrUnauthorized
	}
	d := &portal.Dashboard{
		Orders:   []portal.OrderSummary{},
		Invoices: []portal.Invoice{},
		Payments: []portal.Payment{},
		Totals:   portal.Totals{Orders: decimal.Zero, Invoiced: decimal.Zero, Outstanding: decimal.Zero, Paid: decimal.Zero},
	}

	customerID, err := s.directory.CustomerForUser(ctx, p.User)
	if errors.Is(err, xerrors.ErrNotFound) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	d.Customer = customerID
	d.CustomerName = customerID
	if c, err := s.customers.FindByID(ctx, customerID); err == nil {
		d.CustomerName = c.CustomerName
	}

	d.WholesalePending, err = s.tags.HasTag(ctx, customer.LinkTypeCustomer, customerID, account.TagWholesalePending)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer tags: %w", err)
	}

	orders, err := s.orders.ListByCustomer(ctx, customerID, portalListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for _, o := range orders {
		d.Orders = append(d.Orders, portal.OrderSummary{
			Name:            o.ID,
			TransactionDate: o.TransactionDate,
			Status:          string(o.Status),
			GrandTotal:      o.GrandTotal,
		})
		d.Totals.Orders = d.Totals.Orders.Add(o.GrandTotal)
	}

	invoices, err := s.portal.Invoices(ctx, customerID, portalListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	for _, inv := range invoices {
		d.Totals.Invoiced = d.Totals.Invoiced.Add(inv.GrandTotal)
		d.Totals.Outstanding = d.Totals.Outstanding.Add(inv.OutstandingAmount)
	}
	if invoices != nil {
		d.Invoices = invoices
	}

	payments, err := s.portal.Payments(ctx, customerID, portalListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	for _, pay := range payments {
		d.Totals.Paid = d.Totals.Paid.Add(pay.PaidAmount)
	}
	if payments != nil {
		d.Payments = payments
	}
	return d, nil
}
