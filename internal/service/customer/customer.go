// internal/service/customer/customer.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/pkg/besteffort"
	xerrors "storefront-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Policy resolves the group and price list of a classification.
type Policy interface {
	GroupAndPrice(ctx context.Context, c customer.Classification) (pricing.Policy, error)
}

// CustomerService is the customer directory: it finds or creates the
// Customer/Contact pair of an email and links addresses to customers.
type CustomerService struct {
	customers customer.Repository
	contacts  customer.ContactRepository
	addresses customer.AddressRepository
	policy    Policy
	logger    *zap.Logger
}

func NewCustomerService(
	customers customer.Repository,
	contacts customer.ContactRepository,
	addresses customer.AddressRepository,
	policy Policy,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		contacts:  contacts,
		addresses: addresses,
		policy:    policy,
		logger:    logger,
	}
}

// ResolveOrCreate returns the customer that owns email, creating one under
// the classification's policy when none exists. An existing customer is
// returned unchanged.
func (s *CustomerService) ResolveOrCreate(ctx context.Context, displayName, email string, c customer.Classification) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", xerrors.Validation("email is required")
	}

	existing, err := s.customers.FindByEmail(ctx, email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up customer: %w", err)
	}

	policy, err := s.policy.GroupAndPrice(ctx, c)
	if err != nil {
		return "", err
	}

	cust := &customer.Customer{
		CustomerName:     displayName,
		CustomerType:     policy.CustomerType,
		CustomerGroup:    policy.CustomerGroup,
		Territory:        customer.DefaultTerritory,
		Email:            email,
		DefaultPriceList: policy.PriceList,
	}
	if err := s.customers.Create(ctx, cust); err != nil {
		if !errors.Is(err, xerrors.ErrConflict) {
			return "", fmt.Errorf("failed to create customer: %w", err)
		}
		// Lost a race with a concurrent insert for the same email.
		winner, findErr := s.customers.FindByEmail(ctx, email)
		if findErr != nil {
			return "", fmt.Errorf("failed to re-read customer after conflict: %w", findErr)
		}
		return winner.ID, nil
	}

	s.logger.Info("customer created",
		zap.String("customer", cust.ID),
		zap.String("customer_group", cust.CustomerGroup),
		zap.String("customer_type", cust.CustomerType),
	)
	return cust.ID, nil
}

// EnsureContact makes sure the contact for email exists and is linked to
// customerID exactly once.
func (s *CustomerService) EnsureContact(ctx context.Context, customerID, displayName, email string) error {
	link := customer.Link{LinkType: customer.LinkTypeCustomer, LinkName: customerID}

	existing, err := s.contacts.FindByEmail(ctx, email)
	if err == nil {
		return s.linkContact(ctx, existing, link)
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to look up contact: %w", err)
	}

	contact := &customer.Contact{
		FirstName: displayName,
		Email:     email,
		Links:     []customer.Link{link},
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		if !errors.Is(err, xerrors.ErrConflict) {
			return fmt.Errorf("failed to create contact: %w", err)
		}
		winner, findErr := s.contacts.FindByEmail(ctx, email)
		if findErr != nil {
			return fmt.Errorf("failed to re-read contact after conflict: %w", findErr)
		}
		return s.linkContact(ctx, winner, link)
	}
	return nil
}

func (s *CustomerService) linkContact(ctx context.Context, contact *customer.Contact, link customer.Link) error {
	if customer.HasLink(contact.Links, link.LinkType, link.LinkName) {
		return nil
	}
	if err := s.contacts.AddLink(ctx, contact.ID, link); err != nil {
		return fmt.Errorf("failed to link contact %s: %w", contact.ID, err)
	}
	return nil
}

// EnsureAddress links an existing address to customerID if it is not
// linked already.
func (s *CustomerService) EnsureAddress(ctx context.Context, customerID, addressID string) error {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return fmt.Errorf("failed to load address %s: %w", addressID, err)
	}
	if customer.HasLink(addr.Links, customer.LinkTypeCustomer, customerID) {
		return nil
	}
	link := customer.Link{LinkType: customer.LinkTypeCustomer, LinkName: customerID}
	if err := s.addresses.AddLink(ctx, addr.ID, link); err != nil {
		return fmt.Errorf("failed to link address %s: %w", addr.ID, err)
	}
	return nil
}

// LinkAddresses runs EnsureAddress for every non-empty id. A failing address
// is logged and skipped.
func (s *CustomerService) LinkAddresses(ctx context.Context, customerID string, addressIDs ...string) {
	for _, id := range addressIDs {
		if id == "" {
			continue
		}
		addressID := id
		besteffort.Ignore(ctx, s.logger, "link_address", func(ctx context.Context) error {
			return s.EnsureAddress(ctx, customerID, addressID)
		}, zap.String("customer", customerID), zap.String("address", addressID))
	}
}

// CustomerForUser returns the customer owned by a login email: the customer
// with that email, else the first customer linked to the contact with that
// email. It returns xerrors.ErrNotFound when neither exists.
func (s *CustomerService) CustomerForUser(ctx context.Context, email string) (string, error) {
	cust, err := s.customers.FindByEmail(ctx, email)
	if err == nil {
		return cust.ID, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up customer: %w", err)
	}

	contact, err := s.contacts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return "", xerrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up contact: %w", err)
	}
	if id, ok := customer.FirstLink(contact.Links, customer.LinkTypeCustomer); ok {
		return id, nil
	}
	return "", xerrors.ErrNotFound
}

// Customer loads a customer record.
func (s *CustomerService) Customer(ctx context.Context, id string) (*customer.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// PrimaryAddress is the first address linked to customerID in store order,
// or nil when the customer has none.
func (s *CustomerService) PrimaryAddress(ctx context.Context, customerID string) (*customer.Address, error) {
	list, err := s.addresses.ListLinked(ctx, customer.LinkTypeCustomer, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}
