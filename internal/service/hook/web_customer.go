// internal/service/hook/web_customer.go
package hook

import (
	"context"
	"strings"
	"unicode"

	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"

	"go.uber.org/zap"
)

type Directory interface {
	ResolveOrCreate(ctx context.Context, displayName, email string, c customer.Classification) (string, error)
	EnsureContact(ctx context.Context, customerID, displayName, email string) error
	LinkAddresses(ctx context.Context, customerID string, addressIDs ...string)
}

type Accounts interface {
	EnsureAccount(ctx context.Context, email, firstName string, sendWelcome bool) error
}

type Pricing interface {
	ApplyToOrder(ctx context.Context, o *order.Order, c customer.Classification) error
}

// WebCustomerHook back-fills the customer of orders placed from the
// storefront. It runs before every order insert, whatever the entry point.
type WebCustomerHook struct {
	directory Directory
	accounts  Accounts
	pricing   Pricing
	logger    *zap.Logger
}

var _ order.Interceptor = (*WebCustomerHook)(nil)

func NewWebCustomerHook(directory Directory, accounts Accounts, pricing Pricing, logger *zap.Logger) *WebCustomerHook {
	return &WebCustomerHook{
		directory: directory,
		accounts:  accounts,
		pricing:   pricing,
		logger:    logger,
	}
}

func (h *WebCustomerHook) BeforeInsert(ctx context.Context, o *order.Order) error {
	if o.Customer != "" && o.Customer != customer.GuestCustomer {
		if !o.IsWebOrder {
			return nil
		}
		mail := firstNonEmpty(o.ContactEmail, o.BillingEmail)
		return h.accounts.EnsureAccount(ctx, mail, localPart(mail), false)
	}

	mail := firstNonEmpty(o.ContactEmail, o.BillingEmail, o.CustomerEmail)
	if mail == "" {
		// Nothing to resolve against; the order keeps whatever customer it had.
		return nil
	}
	name := firstNonEmpty(o.ContactDisplay, o.ContactPerson, o.CustomerName)
	if name == "" {
		name = NameFromEmail(mail)
	}

	customerID, err := h.directory.ResolveOrCreate(ctx, name, mail, customer.Retail)
	if err != nil {
		return err
	}
	if err := h.directory.EnsureContact(ctx, customerID, name, mail); err != nil {
		return err
	}
	h.directory.LinkAddresses(ctx, customerID, o.ShippingAddressName, o.CustomerAddress)
	if err := h.accounts.EnsureAccount(ctx, mail, localPart(mail), true); err != nil {
		return err
	}

	o.Customer = customerID
	o.CustomerName = name
	if err := h.pricing.ApplyToOrder(ctx, o, customer.Retail); err != nil {
		return err
	}

	h.logger.Info("guest order assigned to customer",
		zap.String("customer", customerID),
		zap.Bool("web_order", o.IsWebOrder),
	)
	return nil
}

// NameFromEmail turns "jane.doe@x" into "Jane Doe".
func NameFromEmail(mail string) string {
	return titleCase(strings.ReplaceAll(localPart(mail), ".", " "))
}

func localPart(mail string) string {
	if i := strings.Index(mail, "@"); i >= 0 {
		return mail[:i]
	}
	return mail
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
