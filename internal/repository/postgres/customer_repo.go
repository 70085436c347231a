// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-service/internal/domain/customer"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/ids"
)

const (
	parentContact = "Contact"
	parentAddress = "Address"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer. A taken email surfaces as ErrConflict.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if c.ID == "" {
		c.ID = ids.New(ids.PrefixCustomer)
	}
	query := `
		INSERT INTO customers (
			id, customer_name, customer_type, customer_group, territory, email, default_price_list
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.CustomerName, c.CustomerType, c.CustomerGroup, c.Territory, c.Email, c.DefaultPriceList,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("customer with email %s: %w", c.Email, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

const customerColumns = `id, customer_name, customer_type, customer_group, territory, email,
	default_price_list, created_at, updated_at`

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.CustomerName, &c.CustomerType, &c.CustomerGroup, &c.Territory, &c.Email,
		&c.DefaultPriceList, &c.CreatedAt, &c.UpdatedAt)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(email) = LOWER($1) AND email <> '' LIMIT 1`
	return scanCustomer(r.db.QueryRow(ctx, query, email))
}

// ========== Contacts ==========

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts the contact together with its links.
func (r *ContactRepository) Create(ctx context.Context, c *customer.Contact) error {
	if c.ID == "" {
		c.ID = ids.New(ids.PrefixContact)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO contacts (id, first_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, c.ID, c.FirstName, c.Email, c.Phone).Scan(&c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("contact with email %s: %w", c.Email, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	for _, l := range c.Links {
		if err := insertLink(ctx, tx, parentContact, c.ID, l); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ContactRepository) find(ctx context.Context, where string, arg string) (*customer.Contact, error) {
	var c customer.Contact
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, email, phone, created_at, updated_at
		FROM contacts WHERE `+where+` LIMIT 1
	`, arg).Scan(&c.ID, &c.FirstName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	c.Links, err = loadLinks(ctx, r.db, parentContact, c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*customer.Contact, error) {
	return r.find(ctx, "id = $1", id)
}

func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*customer.Contact, error) {
	return r.find(ctx, "LOWER(email) = LOWER($1) AND email <> ''", email)
}

func (r *ContactRepository) Update(ctx context.Context, c *customer.Contact) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE contacts SET first_name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.FirstName, c.Email, c.Phone)
	if isUniqueViolation(err) {
		return fmt.Errorf("contact with email %s: %w", c.Email, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) AddLink(ctx context.Context, contactID string, link customer.Link) error {
	return addLink(ctx, r.db, "contacts", parentContact, contactID, link)
}

// ========== Addresses ==========

type AddressRepository struct {
	db *pgxpool.Pool
}

func NewAddressRepository(db *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(ctx context.Context, a *customer.Address) error {
	if a.ID == "" {
		a.ID = ids.New(ids.PrefixAddress)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO addresses (
			id, title, address_type, line1, line2, city, state, pincode, country, phone, email
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, a.ID, a.Title, a.AddressType, a.Line1, a.Line2, a.City, a.State, a.Pincode, a.Country, a.Phone, a.Email,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("address %s: %w", a.ID, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	for _, l := range a.Links {
		if err := insertLink(ctx, tx, parentAddress, a.ID, l); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const addressColumns = `a.id, a.title, a.address_type, a.line1, a.line2, a.city, a.state, a.pincode,
	a.country, a.phone, a.email, a.created_at, a.updated_at`

func scanAddress(row pgx.Row) (*customer.Address, error) {
	var a customer.Address
	err := row.Scan(&a.ID, &a.Title, &a.AddressType, &a.Line1, &a.Line2, &a.City, &a.State, &a.Pincode,
		&a.Country, &a.Phone, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (*customer.Address, error) {
	a, err := scanAddress(r.db.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses a WHERE a.id = $1`, id))
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find address: %w", err)
	}
	a.Links, err = loadLinks(ctx, r.db, parentAddress, a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AddressRepository) Update(ctx context.Context, a *customer.Address) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE addresses SET
			title = $2, address_type = $3, line1 = $4, line2 = $5, city = $6, state = $7,
			pincode = $8, country = $9, phone = $10, email = $11, updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.Title, a.AddressType, a.Line1, a.Line2, a.City, a.State, a.Pincode, a.Country, a.Phone, a.Email)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM dynamic_links WHERE parent_type = $1 AND parent_id = $2`, parentAddress, id); err != nil {
		return fmt.Errorf("failed to delete address links: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *AddressRepository) AddLink(ctx context.Context, addressID string, link customer.Link) error {
	return addLink(ctx, r.db, "addresses", parentAddress, addressID, link)
}

// ListLinked returns linked addresses in link insertion order.
func (r *AddressRepository) ListLinked(ctx context.Context, linkType, linkName string) ([]customer.Address, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses a
		JOIN dynamic_links l ON l.parent_type = $1 AND l.parent_id = a.id
		WHERE l.link_type = $2 AND l.link_name = $3
		ORDER BY l.seq
	`, parentAddress, linkType, linkName)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var out []customer.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Links, err = loadLinks(ctx, r.db, parentAddress, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ========== Links ==========

func insertLink(ctx context.Context, tx pgx.Tx, parentType, parentID string, l customer.Link) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO dynamic_links (parent_type, parent_id, link_type, link_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`, parentType, parentID, l.LinkType, l.LinkName)
	if err != nil {
		return fmt.Errorf("failed to link %s %s: %w", parentType, parentID, err)
	}
	return nil
}

// addLink links an existing parent row. Linking twice is a no-op.
func addLink(ctx context.Context, db *pgxpool.Pool, table, parentType, parentID string, l customer.Link) error {
	tag, err := db.Exec(ctx, `
		INSERT INTO dynamic_links (parent_type, parent_id, link_type, link_name)
		SELECT $1, id, $3, $4 FROM `+table+` WHERE id = $2
		ON CONFLICT DO NOTHING
	`, parentType, parentID, l.LinkType, l.LinkName)
	if err != nil {
		return fmt.Errorf("failed to link %s %s: %w", parentType, parentID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, parentID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check %s %s: %w", parentType, parentID, err)
		}
		if !exists {
			return xerrors.ErrNotFound
		}
	}
	return nil
}

func loadLinks(ctx context.Context, db *pgxpool.Pool, parentType, parentID string) ([]customer.Link, error) {
	rows, err := db.Query(ctx, `
		SELECT link_type, link_name FROM dynamic_links
		WHERE parent_type = $1 AND parent_id = $2
		ORDER BY seq
	`, parentType, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	defer rows.Close()

	var links []customer.Link
	for rows.Next() {
		var l customer.Link
		if err := rows.Scan(&l.LinkType, &l.LinkName); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
