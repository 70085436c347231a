// internal/repository/memory/customer.go
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/domain/customer"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/ids"
)

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := customer.NormalizeEmail(c.Email)
	for _, existing := range r.s.customers {
		if email != "" && customer.NormalizeEmail(existing.Email) == email {
			return fmt.Errorf("customer with email %s: %w", c.Email, xerrors.ErrConflict)
		}
	}
	if c.ID == "" {
		c.ID = ids.New(ids.PrefixCustomer)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	row := *c
	r.s.customers = append(r.s.customers, &row)
	return nil
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = customer.NormalizeEmail(email)
	for _, c := range r.s.customers {
		if customer.NormalizeEmail(c.Email) == email {
			out := *c
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

type contactRepo struct{ s *Store }

func (r *contactRepo) Create(ctx context.Context, c *customer.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := customer.NormalizeEmail(c.Email)
	for _, existing := range r.s.contacts {
		if email != "" && customer.NormalizeEmail(existing.Email) == email {
			return fmt.Errorf("contact with email %s: %w", c.Email, xerrors.ErrConflict)
		}
	}
	if c.ID == "" {
		c.ID = ids.New(ids.PrefixContact)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	row := *c
	row.Links = copyLinks(c.Links)
	r.s.contacts = append(r.s.contacts, &row)
	return nil
}

func (r *contactRepo) find(match func(*customer.Contact) bool) (*customer.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contacts {
		if match(c) {
			out := *c
			out.Links = copyLinks(c.Links)
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *contactRepo) FindByID(ctx context.Context, id string) (*customer.Contact, error) {
	return r.find(func(c *customer.Contact) bool { return c.ID == id })
}

func (r *contactRepo) FindByEmail(ctx context.Context, email string) (*customer.Contact, error) {
	email = customer.NormalizeEmail(email)
	return r.find(func(c *customer.Contact) bool { return customer.NormalizeEmail(c.Email) == email })
}

func (r *contactRepo) Update(ctx context.Context, c *customer.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.contacts {
		if existing.ID != c.ID {
			continue
		}
		row := *c
		row.Links = copyLinks(existing.Links)
		row.CreatedAt = existing.CreatedAt
		row.UpdatedAt = time.Now()
		r.s.contacts[i] = &row
		return nil
	}
	return xerrors.ErrNotFound
}

func (r *contactRepo) AddLink(ctx context.Context, contactID string, link customer.Link) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contacts {
		if c.ID != contactID {
			continue
		}
		if !customer.HasLink(c.Links, link.LinkType, link.LinkName) {
			c.Links = append(c.Links, link)
			c.UpdatedAt = time.Now()
		}
		return nil
	}
	return xerrors.ErrNotFound
}

type addressRepo struct{ s *Store }

func (r *addressRepo) Create(ctx context.Context, a *customer.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID == "" {
		a.ID = ids.New(ids.PrefixAddress)
	}
	for _, existing := range r.s.addresses {
		if existing.ID == a.ID {
			return fmt.Errorf("address %s: %w", a.ID, xerrors.ErrConflict)
		}
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	row := *a
	row.Links = copyLinks(a.Links)
	r.s.addresses = append(r.s.addresses, &row)
	return nil
}

func (r *addressRepo) FindByID(ctx context.Context, id string) (*customer.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.addresses {
		if a.ID == id {
			out := *a
			out.Links = copyLinks(a.Links)
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *addressRepo) Update(ctx context.Context, a *customer.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.addresses {
		if existing.ID != a.ID {
			continue
		}
		row := *a
		row.Links = copyLinks(existing.Links)
		row.CreatedAt = existing.CreatedAt
		row.UpdatedAt = time.Now()
		r.s.addresses[i] = &row
		return nil
	}
	return xerrors.ErrNotFound
}

func (r *addressRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, a := range r.s.addresses {
		if a.ID == id {
			r.s.addresses = append(r.s.addresses[:i], r.s.addresses[i+1:]...)
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (r *addressRepo) AddLink(ctx context.Context, addressID string, link customer.Link) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.addresses {
		if a.ID != addressID {
			continue
		}
		if !customer.HasLink(a.Links, link.LinkType, link.LinkName) {
			a.Links = append(a.Links, link)
			a.UpdatedAt = time.Now()
		}
		return nil
	}
	return xerrors.ErrNotFound
}

func (r *addressRepo) ListLinked(ctx context.Context, linkType, linkName string) ([]customer.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []customer.Address
	for _, a := range r.s.addresses {
		if customer.HasLink(a.Links, linkType, linkName) {
			row := *a
			row.Links = copyLinks(a.Links)
			out = append(out, row)
		}
	}
	return out, nil
}

// CustomerCount reports how many customers carry email. Test helper.
func (s *Store) CustomerCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			n++
		}
	}
	return n
}

// ContactCount reports how many contacts carry email. Test helper.
func (s *Store) ContactCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.contacts {
		if strings.EqualFold(c.Email, email) {
			n++
		}
	}
	return n
}
