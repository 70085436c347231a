// internal/repository/postgres/pricing_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/pricing"
	xerrors "storefront-service/internal/pkg/errors"
)

type PricingRepository struct {
	db *pgxpool.Pool
}

func NewPricingRepository(db *pgxpool.Pool) *PricingRepository {
	return &PricingRepository{db: db}
}

func (r *PricingRepository) exists(ctx context.Context, query, name string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", name, err)
	}
	return ok, nil
}

func (r *PricingRepository) GroupExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customer_groups WHERE name = $1)`, name)
}

func (r *PricingRepository) CreateGroup(ctx context.Context, g *pricing.CustomerGroup) error {
	_, err := r.db.Exec(ctx, `INSERT INTO customer_groups (name) VALUES ($1)`, g.Name)
	if isUniqueViolation(err) {
		return fmt.Errorf("customer group %s: %w", g.Name, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer group: %w", err)
	}
	return nil
}

func (r *PricingRepository) PriceListExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM price_lists WHERE name = $1)`, name)
}

func (r *PricingRepository) CreatePriceList(ctx context.Context, p *pricing.PriceList) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO price_lists (name, selling, currency) VALUES ($1, $2, $3)
	`, p.Name, p.Selling, p.Currency)
	if isUniqueViolation(err) {
		return fmt.Errorf("price list %s: %w", p.Name, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create price list: %w", err)
	}
	return nil
}

func (r *PricingRepository) FirstSellingPriceList(ctx context.Context) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `
		SELECT name FROM price_lists WHERE selling ORDER BY created_at, name LIMIT 1
	`).Scan(&name)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find selling price list: %w", err)
	}
	return name, nil
}

func (r *PricingRepository) ItemPrice(ctx context.Context, itemCode, priceList string) (decimal.Decimal, bool, error) {
	var rate decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT price_list_rate FROM item_prices
		WHERE item_code = $1 AND price_list = $2 AND selling
	`, itemCode, priceList).Scan(&rate)
	if isNoRows(err) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read price of %s: %w", itemCode, err)
	}
	return rate, true, nil
}
