// internal/service/checkout/checkout.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/checkout"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/domain/settings"
	"storefront-service/internal/domain/websocket"
	"storefront-service/internal/pkg/besteffort"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Directory interface {
	ResolveOrCreate(ctx context.Context, displayName, email string, c customer.Classification) (string, error)
	EnsureContact(ctx context.Context, customerID, displayName, email string) error
	CustomerForUser(ctx context.Context, email string) (string, error)
	PrimaryAddress(ctx context.Context, customerID string) (*customer.Address, error)
}

type Pricing interface {
	GroupAndPrice(ctx context.Context, c customer.Classification) (pricing.Policy, error)
	Currency(ctx context.Context) string
}

// ProfileSyncer writes submitted contact details back to the caller's profile.
type ProfileSyncer interface {
	SyncProfile(ctx context.Context, p session.Principal, fullName, email, phone string) error
}

// OrderNotifier announces storefront orders to staff.
type OrderNotifier interface {
	PublishWebOrder(ctx context.Context, data websocket.WebOrderData) error
}

type Deps struct {
	Directory    Directory
	Pricing      Pricing
	Contacts     customer.ContactRepository
	Addresses    customer.AddressRepository
	Prices       pricing.Repository
	Items        catalog.ItemRepository
	Warehouses   catalog.WarehouseRepository
	Companies    catalog.CompanyRepository
	PaymentTerms catalog.PaymentTermsRepository
	Settings     settings.Repository
	Orders       order.Repository
	Profiles     ProfileSyncer
	Notifier     OrderNotifier // optional
}

type CheckoutService struct {
	directory    Directory
	pricing      Pricing
	contacts     customer.ContactRepository
	addresses    customer.AddressRepository
	prices       pricing.Repository
	items        catalog.ItemRepository
	warehouses   catalog.WarehouseRepository
	companies    catalog.CompanyRepository
	paymentTerms catalog.PaymentTermsRepository
	settings     settings.Repository
	orders       order.Repository
	profiles     ProfileSyncer
	notifier     OrderNotifier
	now          func() time.Time
	logger       *zap.Logger
}

func NewCheckoutService(d Deps, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		directory:    d.Directory,
		pricing:      d.Pricing,
		contacts:     d.Contacts,
		addresses:    d.Addresses,
		prices:       d.Prices,
		items:        d.Items,
		warehouses:   d.Warehouses,
		companies:    d.Companies,
		paymentTerms: d.PaymentTerms,
		settings:     d.Settings,
		orders:       d.Orders,
		profiles:     d.Profiles,
		notifier:     d.Notifier,
		now:          time.Now,
		logger:       logger,
	}
}

type resolvedLine struct {
	line checkout.CartLine
	item *catalog.Item
}

// PlaceOrder turns a submitted cart into an order and tries to finalize it.
// Validation failures abort before any write. Once the draft exists the call
// succeeds; a failed finalization is reported through the warning.
func (s *CheckoutService) PlaceOrder(ctx context.Context, p session.Principal, req checkout.PlaceOrderRequest) (*checkout.PlaceOrderResult, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if req.PaymentMethod == "" {
		req.PaymentMethod = checkout.DefaultPaymentMethod
	}

	// ----- Validation -----
	required := []struct{ field, value string }{
		{"full_name", req.FullName},
		{"email", req.Email},
		{"address_line1", req.AddressLine1},
		{"city", req.City},
		{"country", req.Country},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, xerrors.Validation("Missing required field: %s", r.field)
		}
	}
	if len(req.Items) == 0 {
		return nil, xerrors.Validation("Cart is empty")
	}
	lines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, xerrors.Validation("invalid cart items")
	}

	// ----- Customer -----
	policy, err := s.pricing.GroupAndPrice(ctx, customer.Retail)
	if err != nil {
		return nil, err
	}
	customerID, err := s.directory.ResolveOrCreate(ctx, req.FullName, req.Email, customer.Retail)
	if err != nil {
		return nil, err
	}
	if err := s.directory.EnsureContact(ctx, customerID, req.FullName, req.Email); err != nil {
		return nil, err
	}
	addressID, err := s.saveShippingAddress(ctx, customerID, req)
	if err != nil {
		return nil, err
	}

	// ----- Order -----
	company, err := s.resolveCompany(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		warehouse, err := s.resolveWarehouse(ctx, l.item, company)
		if err != nil {
			return nil, err
		}
		rate, err := s.lineRate(ctx, l, policy.PriceList)
		if err != nil {
			return nil, err
		}
		qty := l.line.Qty
		if !qty.IsPositive() {
			qty = decimal.NewFromInt(1)
		}
		items = append(items, order.Item{
			ItemCode:  l.item.ItemCode,
			ItemName:  l.item.ItemName,
			Qty:       qty,
			Rate:      rate,
			Warehouse: warehouse,
		})
	}
	terms, err := s.resolvePaymentTerms(ctx, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o := &order.Order{
		Customer:            customerID,
		CustomerName:        req.FullName,
		CustomerGroup:       policy.CustomerGroup,
		SellingPriceList:    policy.PriceList,
		Company:             company,
		Currency:            s.pricing.Currency(ctx),
		ContactEmail:        req.Email,
		ContactDisplay:      req.FullName,
		ShippingAddressName: addressID,
		CustomerAddress:     addressID,
		PaymentTerms:        terms,
		Remarks:             remarks(req.Notes, req.PaymentMethod),
		IsWebOrder:          true,
		TransactionDate:     now,
		DeliveryDate:        now,
		Items:               items,
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	result := &checkout.PlaceOrderResult{OK: true, Order: o.ID, Finalized: true}
	if err := besteffort.Do(ctx, s.logger, "submit_order", func(ctx context.Context) error {
		return s.orders.Submit(ctx, o.ID)
	}, zap.String("order", o.ID)); err != nil {
		result.Finalized = false
		result.Warning = fmt.Sprintf("Order %s was saved as a draft: %v", o.ID, err)
	}

	// ----- Follow-ups -----
	if !p.IsGuest() && bool(req.UpdateProfile) && s.profiles != nil {
		besteffort.Ignore(ctx, s.logger, "sync_profile", func(ctx context.Context) error {
			return s.profiles.SyncProfile(ctx, p, req.FullName, req.Email, req.Phone)
		})
	}
	if s.notifier != nil {
		besteffort.Ignore(ctx, s.logger, "publish_web_order", func(ctx context.Context) error {
			return s.notifier.PublishWebOrder(ctx, websocket.WebOrderData{
				Order:     o.ID,
				Customer:  customerID,
				Finalized: result.Finalized,
			})
		})
	}

	s.logger.Info("web order placed",
		zap.String("order", o.ID),
		zap.String("customer", customerID),
		zap.Int("lines", len(items)),
		zap.Bool("finalized", result.Finalized),
	)
	return result, nil
}

// resolveLines drops lines without a code or with an unknown code.
func (s *CheckoutService) resolveLines(ctx context.Context, cart checkout.CartItems) ([]resolvedLine, error) {
	var out []resolvedLine
	for _, line := range cart {
		code := strings.TrimSpace(line.ItemCode)
		if code == "" {
			continue
		}
		item, err := s.items.FindItem(ctx, code)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load item %s: %w", code, err)
		}
		line.ItemCode = code
		out = append(out, resolvedLine{line: line, item: item})
	}
	return out, nil
}

// lineRate keeps a positive submitted rate, else prices the line from the
// price list, else from the item's standard rate.
func (s *CheckoutService) lineRate(ctx context.Context, l resolvedLine, priceList string) (decimal.Decimal, error) {
	if l.line.Rate.IsPositive() {
		return l.line.Rate, nil
	}
	rate, ok, err := s.prices.ItemPrice(ctx, l.item.ItemCode, priceList)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to price item %s: %w", l.item.ItemCode, err)
	}
	if ok {
		return rate, nil
	}
	return l.item.StandardRate, nil
}

// saveShippingAddress overwrites the primary address when asked to, and
// creates a new address otherwise.
func (s *CheckoutService) saveShippingAddress(ctx context.Context, customerID string, req checkout.PlaceOrderRequest) (string, error) {
	if req.UpdateAddress {
		primary, err := s.directory.PrimaryAddress(ctx, customerID)
		if err != nil {
			return "", err
		}
		if primary != nil {
			fillAddress(primary, req)
			if err := s.addresses.Update(ctx, primary); err != nil {
				return "", fmt.Errorf("failed to update address: %w", err)
			}
			return primary.ID, nil
		}
	}

	addr := &customer.Address{
		Links: []customer.Link{{LinkType: customer.LinkTypeCustomer, LinkName: customerID}},
	}
	fillAddress(addr, req)
	if err := s.addresses.Create(ctx, addr); err != nil {
		return "", fmt.Errorf("failed to create address: %w", err)
	}
	return addr.ID, nil
}

func fillAddress(addr *customer.Address, req checkout.PlaceOrderRequest) {
	addr.Title = req.FullName
	addr.AddressType = customer.AddressTypeShipping
	addr.Line1 = req.AddressLine1
	addr.City = req.City
	addr.Country = req.Country
	addr.Phone = req.Phone
	addr.Email = req.Email
}

func remarks(notes, paymentMethod string) string {
	notes = strings.TrimSpace(notes)
	if paymentMethod == "" {
		return notes
	}
	line := "Payment Method: " + paymentMethod
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

// CheckoutProfile pre-fills the checkout form. Guests get an empty profile.
func (s *CheckoutService) CheckoutProfile(ctx context.Context, p session.Principal) (*checkout.Profile, error) {
	profile := &checkout.Profile{}
	if p.IsGuest() {
		return profile, nil
	}

	profile.Email = p.User
	contact, err := s.contacts.FindByEmail(ctx, p.User)
	switch {
	case err == nil:
		profile.FullName = contact.FirstName
		profile.Phone = contact.Phone
	case !errors.Is(err, xerrors.ErrNotFound):
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	customerID, err := s.directory.CustomerForUser(ctx, p.User)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return profile, nil
		}
		return nil, err
	}
	addr, err := s.directory.PrimaryAddress(ctx, customerID)
	if err != nil {
		return nil, err
	}
	profile.Address = addr
	return profile, nil
}
