// internal/repository/postgres/catalog_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"storefront-service/internal/domain/catalog"
	xerrors "storefront-service/internal/pkg/errors"
)

// ========== Items ==========

type ItemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) FindItem(ctx context.Context, itemCode string) (*catalog.Item, error) {
	var it catalog.Item
	err := r.db.QueryRow(ctx, `
		SELECT item_code, item_name, item_group, standard_rate, default_warehouse, published_in_website
		FROM items WHERE item_code = $1
	`, itemCode).Scan(&it.ItemCode, &it.ItemName, &it.ItemGroup, &it.StandardRate, &it.DefaultWarehouse, &it.PublishedInWebsite)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", itemCode, err)
	}
	return &it, nil
}

func (r *ItemRepository) FindItemDefault(ctx context.Context, itemCode, company string) (*catalog.ItemDefault, error) {
	var d catalog.ItemDefault
	err := r.db.QueryRow(ctx, `
		SELECT item_code, company, default_warehouse FROM item_defaults
		WHERE item_code = $1 AND company = $2
	`, itemCode, company).Scan(&d.ItemCode, &d.Company, &d.DefaultWarehouse)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item default: %w", err)
	}
	return &d, nil
}

func (r *ItemRepository) ItemGroups(ctx context.Context, itemCodes []string) (map[string]string, error) {
	out := make(map[string]string, len(itemCodes))
	if len(itemCodes) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT item_code, item_group FROM items WHERE item_code = ANY($1)`, itemCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to read item groups: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code, group string
		if err := rows.Scan(&code, &group); err != nil {
			return nil, fmt.Errorf("failed to scan item group: %w", err)
		}
		out[code] = group
	}
	return out, rows.Err()
}

func (r *ItemRepository) Categories(ctx context.Context, limit int) ([]string, error) {
	return r.strings(ctx, `
		SELECT DISTINCT item_group FROM items
		WHERE published_in_website AND item_group <> ''
		ORDER BY item_group
		LIMIT $1
	`, limitOrAll(limit))
}

func (r *ItemRepository) CodesByCategory(ctx context.Context, category string, limit int) ([]string, error) {
	return r.strings(ctx, `
		SELECT item_code FROM items
		WHERE published_in_website AND item_group = $2
		ORDER BY item_code
		LIMIT $1
	`, limitOrAll(limit), category)
}

func (r *ItemRepository) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// limitOrAll maps "no limit" onto a NULL LIMIT.
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

// ========== Warehouses, companies, payment terms ==========

type WarehouseRepository struct {
	db *pgxpool.Pool
}

func NewWarehouseRepository(db *pgxpool.Pool) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) FindWarehouse(ctx context.Context, name string) (*catalog.Warehouse, error) {
	var w catalog.Warehouse
	err := r.db.QueryRow(ctx, `SELECT name, company FROM warehouses WHERE name = $1`, name).Scan(&w.Name, &w.Company)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find warehouse: %w", err)
	}
	return &w, nil
}

func (r *WarehouseRepository) FirstWarehouse(ctx context.Context, company string) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `
		SELECT name FROM warehouses
		WHERE $1 = '' OR company = $1
		ORDER BY created_at, name
		LIMIT 1
	`, company).Scan(&name)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find warehouse: %w", err)
	}
	return name, nil
}

type CompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) FindCompany(ctx context.Context, name string) (*catalog.Company, error) {
	var c catalog.Company
	err := r.db.QueryRow(ctx, `
		SELECT name, default_warehouse, default_currency FROM companies WHERE name = $1
	`, name).Scan(&c.Name, &c.DefaultWarehouse, &c.DefaultCurrency)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) FirstCompany(ctx context.Context) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM companies ORDER BY created_at, name LIMIT 1`).Scan(&name)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find company: %w", err)
	}
	return name, nil
}

type PaymentTermsRepository struct {
	db *pgxpool.Pool
}

func NewPaymentTermsRepository(db *pgxpool.Pool) *PaymentTermsRepository {
	return &PaymentTermsRepository{db: db}
}

func (r *PaymentTermsRepository) TemplateExists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payment_terms_templates WHERE name = $1)`, name).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check payment terms %s: %w", name, err)
	}
	return ok, nil
}

// ========== Website items ==========

// websiteItemOptional are the website_items columns older schemas may lack.
var websiteItemOptional = []OptionalColumn{
	{Name: "thumbnail", Empty: "''::text"},
	{Name: "website_image", Empty: "''::text"},
	{Name: "image", Empty: "''::text"},
	{Name: "website_description", Empty: "''::text"},
	{Name: "web_long_description", Empty: "''::text"},
	{Name: "description", Empty: "''::text"},
	{Name: "images", Empty: "'{}'::text[]"},
	{Name: "website_specifications", Empty: "'[]'::jsonb"},
}

type WebsiteItemRepository struct {
	db      *pgxpool.Pool
	columns *ColumnCatalog
}

func NewWebsiteItemRepository(db *pgxpool.Pool, columns *ColumnCatalog) *WebsiteItemRepository {
	return &WebsiteItemRepository{db: db, columns: columns}
}

// source is a subquery over website_items with every optional column present.
func (r *WebsiteItemRepository) source(ctx context.Context) (string, error) {
	cols, err := r.columns.Columns(ctx, "website_items")
	if err != nil {
		return "", err
	}
	selected := append([]string{
		"name", "item_code", "item_name", "route", "standard_rate", "published", "modified_at",
	}, Select(cols, websiteItemOptional)...)
	return "(SELECT " + strings.Join(selected, ", ") + " FROM website_items) w", nil
}

const websiteItemFields = `w.name, w.item_code, w.item_name, w.route, w.thumbnail, w.website_image, w.image,
	w.website_description, w.web_long_description, w.description, w.standard_rate, w.published,
	w.images::text[], w.website_specifications::jsonb, w.modified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWebsiteItem(row rowScanner, extra ...any) (*catalog.WebsiteItem, error) {
	var (
		w      catalog.WebsiteItem
		images []string
		specs  []byte
	)
	dest := append([]any{
		&w.Name, &w.ItemCode, &w.ItemName, &w.Route, &w.Thumbnail, &w.WebsiteImage, &w.Image,
		&w.WebsiteDescription, &w.WebLongDescription, &w.Description, &w.StandardRate, &w.Published,
		&images, &specs, &w.ModifiedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	w.Images = pq.StringArray(images)
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &w.Specifications); err != nil {
			return nil, fmt.Errorf("decode specifications of %s: %w", w.Name, err)
		}
	}
	return &w, nil
}

func (r *WebsiteItemRepository) ListPublished(ctx context.Context, f catalog.ListingFilter) ([]catalog.WebsiteItem, int, error) {
	src, err := r.source(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"w.published"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ItemCodes != nil {
		where = append(where, "w.item_code = ANY("+arg(f.ItemCodes)+")")
	}
	if f.MinPrice != nil {
		where = append(where, "w.standard_rate >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "w.standard_rate <= "+arg(*f.MaxPrice))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + q + "%")
		where = append(where, "(w.item_name ILIKE "+p+" OR w.website_description ILIKE "+p+" OR w.web_long_description ILIKE "+p+")")
	}

	query := `SELECT ` + websiteItemFields + `, COUNT(*) OVER () FROM ` + src +
		` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY w.modified_at DESC, w.name` +
		` OFFSET ` + arg(f.Offset) + ` LIMIT ` + arg(limitOrAll(f.Limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list website items: %w", err)
	}
	defer rows.Close()

	var (
		out   []catalog.WebsiteItem
		total int
	)
	for rows.Next() {
		w, err := scanWebsiteItem(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan website item: %w", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 && f.Offset > 0 {
		// The window count is lost when the offset runs past the end.
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+src+` WHERE `+strings.Join(where, " AND "),
			args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count website items: %w", err)
		}
	}
	return out, total, nil
}

func (r *WebsiteItemRepository) FindPublished(ctx context.Context, routeOrCode string) (*catalog.WebsiteItem, error) {
	src, err := r.source(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + websiteItemFields + ` FROM ` + src + `
		WHERE w.published AND ((w.route <> '' AND w.route = $1) OR w.item_code = $1)
		ORDER BY (w.route <> '' AND w.route = $1) DESC, w.modified_at DESC
		LIMIT 1`
	w, err := scanWebsiteItem(r.db.QueryRow(ctx, query, routeOrCode))
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find website item: %w", err)
	}
	return w, nil
}

func (r *WebsiteItemRepository) Reviews(ctx context.Context, itemCode string, limit int) ([]catalog.Review, error) {
	ok, err := r.columns.TableExists(ctx, "item_reviews")
	if err != nil {
		return nil, err
	}
	if !ok {
		return []catalog.Review{}, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT customer_name, rating, review, created_at FROM item_reviews
		WHERE item_code = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, itemCode, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	out := []catalog.Review{}
	for rows.Next() {
		var rv catalog.Review
		if err := rows.Scan(&rv.CustomerName, &rv.Rating, &rv.Review, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
