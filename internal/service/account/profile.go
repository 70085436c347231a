// internal/service/account/profile.go
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/session"

	"go.uber.org/zap"
)

func requireLogin(p session.Principal) error {
	if p.IsGuest() {
		return xerrors.ErrUnauthorized
	}
	return nil
}

// GetProfile returns the caller's contact details, customer and primary address.
func (s *AccountService) GetProfile(ctx context.Context, p session.Principal) (*customer.Profile, error) {
	if err := requireLogin(p); err != nil {
		return nil, err
	}

	profile := &customer.Profile{Email: p.User}
	contact, err := s.contacts.FindByEmail(ctx, p.User)
	switch {
	case err == nil:
		profile.FullName = contact.FirstName
		profile.Phone = contact.Phone
		if contact.Email != "" {
			profile.Email = contact.Email
		}
	case errors.Is(err, xerrors.ErrNotFound):
		if user, uerr := s.users.FindByEmail(ctx, p.User); uerr == nil {
			profile.FullName = strings.TrimSpace(user.FirstName + " " + user.LastName)
			profile.Phone = user.Phone
		}
	default:
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	customerID, err := s.directory.CustomerForUser(ctx, p.User)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return profile, nil
		}
		return nil, err
	}
	profile.Customer = customerID
	addr, err := s.directory.PrimaryAddress(ctx, customerID)
	if err != nil {
		return nil, err
	}
	profile.Address = addr
	return profile, nil
}

// UpdateProfile writes name, email and phone onto the caller's contact and
// login record. Empty fields are left as they are.
func (s *AccountService) UpdateProfile(ctx context.Context, p session.Principal, req customer.UpdateProfileRequest) (*customer.Profile, error) {
	if err := requireLogin(p); err != nil {
		return nil, err
	}
	if err := s.SyncProfile(ctx, p, req.FullName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, p)
}

// SyncProfile is the write half of UpdateProfile, shared with checkout. The
// contact keeps its email when the submitted one already belongs to another
// contact.
func (s *AccountService) SyncProfile(ctx context.Context, p session.Principal, fullName, mail, phone string) error {
	if err := requireLogin(p); err != nil {
		return err
	}
	fullName, mail, phone = strings.TrimSpace(fullName), strings.TrimSpace(mail), strings.TrimSpace(phone)

	contact, err := s.contacts.FindByEmail(ctx, p.User)
	switch {
	case err == nil:
		if fullName != "" {
			contact.FirstName = fullName
		}
		if mail != "" {
			free, err := s.emailFreeFor(ctx, mail, contact.ID)
			if err != nil {
				return err
			}
			if free {
				contact.Email = mail
			}
		}
		if phone != "" {
			contact.Phone = phone
		}
		if err := s.contacts.Update(ctx, contact); err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
	case errors.Is(err, xerrors.ErrNotFound):
		contact = &customer.Contact{FirstName: fullName, Email: p.User, Phone: phone}
		if mail != "" {
			free, err := s.emailFreeFor(ctx, mail, "")
			if err != nil {
				return err
			}
			if free {
				contact.Email = mail
			}
		}
		if customerID, cerr := s.directory.CustomerForUser(ctx, p.User); cerr == nil {
			contact.Links = []customer.Link{{LinkType: customer.LinkTypeCustomer, LinkName: customerID}}
		}
		if err := s.contacts.Create(ctx, contact); err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}
	default:
		return fmt.Errorf("failed to load contact: %w", err)
	}

	user := &account.User{Email: p.User, FirstName: fullName, Phone: phone}
	if existing, err := s.users.FindByEmail(ctx, p.User); err == nil {
		if user.FirstName == "" {
			user.FirstName = existing.FirstName
		}
		user.LastName = existing.LastName
		if user.Phone == "" {
			user.Phone = existing.Phone
		}
		if err := s.users.UpdateProfile(ctx, user); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
	}
	return nil
}

// emailFreeFor reports whether mail is unused or already belongs to contactID.
func (s *AccountService) emailFreeFor(ctx context.Context, mail, contactID string) (bool, error) {
	owner, err := s.contacts.FindByEmail(ctx, mail)
	switch {
	case err == nil:
		if owner.ID != contactID {
			s.logger.Info("contact email kept, submitted email belongs to another contact",
				zap.String("contact", contactID),
				zap.String("owner", owner.ID),
			)
			return false, nil
		}
		return true, nil
	case errors.Is(err, xerrors.ErrNotFound):
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up contact: %w", err)
	}
}

// ========== Addresses ==========

// ListAddresses returns the addresses linked to the caller's customer.
func (s *AccountService) ListAddresses(ctx context.Context, p session.Principal) ([]customer.Address, error) {
	if err := requireLogin(p); err != nil {
		return nil, err
	}
	customerID, err := s.directory.CustomerForUser(ctx, p.User)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return []customer.Address{}, nil
		}
		return nil, err
	}
	list, err := s.addresses.ListLinked(ctx, customer.LinkTypeCustomer, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	if list == nil {
		list = []customer.Address{}
	}
	return list, nil
}

// SaveAddress updates the named address or creates a new one linked to the
// caller's customer, creating that customer when the caller has none.
func (s *AccountService) SaveAddress(ctx context.Context, p session.Principal, req customer.SaveAddressRequest) (*customer.Address, error) {
	if err := requireLogin(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Line1) == "" || strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Country) == "" {
		return nil, xerrors.Validation("Address line 1, city and country are required")
	}

	if req.Name != "" {
		addr, err := s.ownedAddress(ctx, p, req.Name)
		if err != nil {
			return nil, err
		}
		applyAddress(addr, req)
		if err := s.addresses.Update(ctx, addr); err != nil {
			return nil, fmt.Errorf("failed to update address: %w", err)
		}
		return addr, nil
	}

	customerID, err := s.directory.CustomerForUser(ctx, p.User)
	if errors.Is(err, xerrors.ErrNotFound) {
		customerID, err = s.directory.ResolveOrCreate(ctx, s.displayName(ctx, p.User), p.User, customer.Retail)
	}
	if err != nil {
		return nil, err
	}

	addr := &customer.Address{
		Email: p.User,
		Links: []customer.Link{{LinkType: customer.LinkTypeCustomer, LinkName: customerID}},
	}
	applyAddress(addr, req)
	if addr.Title == "" {
		addr.Title = s.displayName(ctx, p.User)
	}
	if err := s.addresses.Create(ctx, addr); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	s.logger.Info("address created", zap.String("address", addr.ID), zap.String("customer", customerID))
	return addr, nil
}

// DeleteAddress removes one of the caller's addresses.
func (s *AccountService) DeleteAddress(ctx context.Context, p session.Principal, name string) error {
	if err := requireLogin(p); err != nil {
		return err
	}
	addr, err := s.ownedAddress(ctx, p, name)
	if err != nil {
		return err
	}
	if err := s.addresses.Delete(ctx, addr.ID); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return nil
}

// ownedAddress loads an address linked to the caller's customer. Foreign
// addresses read as not found.
func (s *AccountService) ownedAddress(ctx context.Context, p session.Principal, name string) (*customer.Address, error) {
	customerID, err := s.directory.CustomerForUser(ctx, p.User)
	if err != nil {
		return nil, err
	}
	addr, err := s.addresses.FindByID(ctx, name)
	if err != nil {
		return nil, err
	}
	if !customer.HasLink(addr.Links, customer.LinkTypeCustomer, customerID) {
		return nil, xerrors.ErrNotFound
	}
	return addr, nil
}

func (s *AccountService) displayName(ctx context.Context, mail string) string {
	if user, err := s.users.FindByEmail(ctx, mail); err == nil && user.FirstName != "" {
		return user.FirstName
	}
	return mail
}

func applyAddress(addr *customer.Address, req customer.SaveAddressRequest) {
	if req.Title != "" {
		addr.Title = req.Title
	}
	addr.AddressType = req.AddressType
	if addr.AddressType == "" {
		addr.AddressType = customer.AddressTypeShipping
	}
	addr.Line1 = strings.TrimSpace(req.Line1)
	addr.Line2 = strings.TrimSpace(req.Line2)
	addr.City = strings.TrimSpace(req.City)
	addr.State = strings.TrimSpace(req.State)
	addr.Pincode = strings.TrimSpace(req.Pincode)
	addr.Country = strings.TrimSpace(req.Country)
	addr.Phone = strings.TrimSpace(req.Phone)
}
