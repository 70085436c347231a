// internal/domain/customer/repository.go
package customer

import "context"

// Repository persists Customer records. Lookups return xerrors.ErrNotFound on a
// miss; Create returns xerrors.ErrConflict when the email is already taken.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}

type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id string) (*Contact, error)
	FindByEmail(ctx context.Context, email string) (*Contact, error)
	// Update writes name, email and phone; links are managed with AddLink.
	Update(ctx context.Context, c *Contact) error
	AddLink(ctx context.Context, contactID string, link Link) error
}

type AddressRepository interface {
	Create(ctx context.Context, a *Address) error
	FindByID(ctx context.Context, id string) (*Address, error)
	// Update writes the address fields; links are managed with AddLink.
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id string) error
	AddLink(ctx context.Context, addressID string, link Link) error
	// ListLinked returns addresses linked to (linkType, linkName) in the
	// store's own order. There is no primary flag: callers treating the first
	// row as primary depend on that order.
	ListLinked(ctx context.Context, linkType, linkName string) ([]Address, error)
}
