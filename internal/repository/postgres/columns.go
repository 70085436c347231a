// internal/repository/postgres/columns.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-service/internal/pkg/requestctx"
)

// ColumnCatalog answers which columns a table has. Lookups are cached on the
// request context, so a schema change is picked up by the next request.
type ColumnCatalog struct {
	db *pgxpool.Pool
}

func NewColumnCatalog(db *pgxpool.Pool) *ColumnCatalog {
	return &ColumnCatalog{db: db}
}

// Columns returns the column set of table in the current schema. A missing
// table yields an empty set.
func (c *ColumnCatalog) Columns(ctx context.Context, table string) (map[string]bool, error) {
	cache := requestctx.Columns(ctx)
	if cols, ok := cache.Get(table); ok {
		return cols, nil
	}

	rows, err := c.db.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cache.Put(table, cols)
	return cols, nil
}

// TableExists reports whether table has any columns.
func (c *ColumnCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	cols, err := c.Columns(ctx, table)
	if err != nil {
		return false, err
	}
	return len(cols) > 0, nil
}

// Select returns "col" for every available column and a typed empty literal
// for the rest, so scans keep a fixed shape.
func Select(cols map[string]bool, wanted []OptionalColumn) []string {
	out := make([]string, 0, len(wanted))
	for _, w := range wanted {
		if cols[w.Name] {
			out = append(out, w.Name)
			continue
		}
		out = append(out, w.Empty+" AS "+w.Name)
	}
	return out
}

// OptionalColumn is a column that may be missing, with its stand-in literal.
type OptionalColumn struct {
	Name  string
	Empty string
}
