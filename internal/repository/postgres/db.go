// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-service/internal/repository"
)

const uniqueViolation = "23505"

type DB struct {
	pool    *pgxpool.Pool
	columns *ColumnCatalog
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool, columns: NewColumnCatalog(pool)}
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Set returns every repository backed by this database.
func (db *DB) Set() repository.Set {
	return repository.Set{
		Customers:    NewCustomerRepository(db.pool),
		Contacts:     NewContactRepository(db.pool),
		Addresses:    NewAddressRepository(db.pool),
		Pricing:      NewPricingRepository(db.pool),
		Items:        NewItemRepository(db.pool),
		Warehouses:   NewWarehouseRepository(db.pool),
		Companies:    NewCompanyRepository(db.pool),
		PaymentTerms: NewPaymentTermsRepository(db.pool),
		WebsiteItems: NewWebsiteItemRepository(db.pool, db.columns),
		Orders:       NewOrderRepository(db.pool),
		Users:        NewUserRepository(db.pool),
		Tags:         NewTagRepository(db.pool),
		Todos:        NewTodoRepository(db.pool),
		Leads:        NewLeadRepository(db.pool),
		Portal:       NewPortalRepository(db.pool),
		Settings:     NewSettingsRepository(db.pool),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
