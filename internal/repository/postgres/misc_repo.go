// internal/repository/postgres/misc_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-service/internal/domain/lead"
	"storefront-service/internal/domain/portal"
	"storefront-service/internal/pkg/ids"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	if l.ID == "" {
		l.ID = ids.New(ids.PrefixLead)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO leads (id, lead_name, email, notes, source) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, l.ID, l.LeadName, l.Email, l.Notes, l.Source).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

type PortalRepository struct {
	db *pgxpool.Pool
}

func NewPortalRepository(db *pgxpool.Pool) *PortalRepository {
	return &PortalRepository{db: db}
}

func (r *PortalRepository) Invoices(ctx context.Context, customerID string, limit int) ([]portal.Invoice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, posting_date, status, grand_total, outstanding_amount
		FROM sales_invoices
		WHERE customer = $1
		ORDER BY posting_date DESC, id DESC
		LIMIT $2
	`, customerID, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var out []portal.Invoice
	for rows.Next() {
		var inv portal.Invoice
		if err := rows.Scan(&inv.Name, &inv.PostingDate, &inv.Status, &inv.GrandTotal, &inv.OutstandingAmount); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *PortalRepository) Payments(ctx context.Context, customerID string, limit int) ([]portal.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, posting_date, status, paid_amount, currency
		FROM payment_entries
		WHERE party_type = 'Customer' AND party = $1
		ORDER BY posting_date DESC, id DESC
		LIMIT $2
	`, customerID, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []portal.Payment
	for rows.Next() {
		var p portal.Payment
		if err := rows.Scan(&p.Name, &p.PostingDate, &p.Status, &p.PaidAmount, &p.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
