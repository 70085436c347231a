// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-service/internal/domain/order"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/ids"
)

type OrderRepository struct {
	db *pgxpool.Pool

	mu           sync.RWMutex
	interceptors order.InterceptorChain
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) RegisterInterceptor(in order.Interceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, in)
}

// Insert runs the interceptor chain, then writes header and lines in one
// transaction. An interceptor error leaves nothing written.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	r.mu.RLock()
	chain := append(order.InterceptorChain(nil), r.interceptors...)
	r.mu.RUnlock()

	if err := chain.BeforeInsert(ctx, o); err != nil {
		return err
	}

	if o.ID == "" {
		o.ID = ids.New(ids.PrefixOrder)
	}
	o.Status = order.StatusDraft
	if o.TransactionDate.IsZero() {
		o.TransactionDate = time.Now()
	}
	o.Recalculate()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var delivery *time.Time
	if !o.DeliveryDate.IsZero() {
		delivery = &o.DeliveryDate
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales_orders (
			id, customer, customer_name, customer_group, selling_price_list, company, currency,
			contact_email, email_id, customer_email, contact_display, contact_person,
			shipping_address_name, customer_address, payment_terms_template, remarks,
			is_web_order, status, transaction_date, delivery_date, grand_total
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at
	`,
		o.ID, o.Customer, o.CustomerName, o.CustomerGroup, o.SellingPriceList, o.Company, o.Currency,
		o.ContactEmail, o.BillingEmail, o.CustomerEmail, o.ContactDisplay, o.ContactPerson,
		o.ShippingAddressName, o.CustomerAddress, o.PaymentTerms, o.Remarks,
		o.IsWebOrder, string(o.Status), o.TransactionDate, delivery, o.GrandTotal,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("order %s: %w", o.ID, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO sales_order_items (order_id, idx, item_code, item_name, qty, rate, amount, warehouse)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, o.ID, i+1, it.ItemCode, it.ItemName, it.Qty, it.Rate, it.Amount, it.Warehouse)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// Submit validates the stored draft and finalizes it under a row lock.
func (r *OrderRepository) Submit(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := findOrder(ctx, tx, id, true)
	if err != nil {
		return err
	}
	if err := o.ValidateForSubmit(); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE sales_orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, string(order.StatusFinalized)); err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)
	return findOrder(ctx, tx, id, false)
}

const orderColumns = `id, customer, customer_name, customer_group, selling_price_list, company, currency,
	contact_email, email_id, customer_email, contact_display, contact_person,
	shipping_address_name, customer_address, payment_terms_template, remarks,
	is_web_order, status, transaction_date, delivery_date, grand_total, created_at, updated_at`

func scanOrder(row rowScanner) (*order.Order, error) {
	var (
		o        order.Order
		status   string
		delivery *time.Time
	)
	err := row.Scan(&o.ID, &o.Customer, &o.CustomerName, &o.CustomerGroup, &o.SellingPriceList, &o.Company, &o.Currency,
		&o.ContactEmail, &o.BillingEmail, &o.CustomerEmail, &o.ContactDisplay, &o.ContactPerson,
		&o.ShippingAddressName, &o.CustomerAddress, &o.PaymentTerms, &o.Remarks,
		&o.IsWebOrder, &status, &o.TransactionDate, &delivery, &o.GrandTotal, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)
	if delivery != nil {
		o.DeliveryDate = *delivery
	}
	return &o, nil
}

func findOrder(ctx context.Context, tx pgx.Tx, id string, lock bool) (*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(tx.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT item_code, item_name, qty, rate, amount, warehouse
		FROM sales_order_items WHERE order_id = $1 ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ItemCode, &it.ItemName, &it.Qty, &it.Rate, &it.Amount, &it.Warehouse); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByCustomer returns order headers only.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM sales_orders
		WHERE customer = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2
	`, customerID, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
