// internal/repository/postgres/account_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/ids"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its roles. Emails are stored normalized.
func (r *UserRepository) Create(ctx context.Context, u *account.User) error {
	email := customer.NormalizeEmail(u.Email)
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (
			email, first_name, last_name, phone, user_type, enabled, password_hash, send_welcome_email
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, email, u.FirstName, u.LastName, u.Phone, u.UserType, u.Enabled, u.PasswordHash, u.SendWelcomeEmail,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, xerrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	for _, role := range u.Roles {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_roles (email, role) VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, email, role); err != nil {
			return fmt.Errorf("failed to grant role %s: %w", role, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	var u account.User
	err := r.db.QueryRow(ctx, `
		SELECT u.email, u.first_name, u.last_name, u.phone, u.user_type, u.enabled, u.password_hash,
			u.send_welcome_email, u.created_at, u.updated_at,
			COALESCE(ARRAY(SELECT role FROM user_roles WHERE email = u.email ORDER BY role), '{}')
		FROM users u
		WHERE u.email = $1
	`, customer.NormalizeEmail(email)).Scan(
		&u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.UserType, &u.Enabled, &u.PasswordHash,
		&u.SendWelcomeEmail, &u.CreatedAt, &u.UpdatedAt, &u.Roles,
	)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		customer.NormalizeEmail(email)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *account.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, phone = $4, updated_at = NOW()
		WHERE email = $1
	`, customer.NormalizeEmail(u.Email), u.FirstName, u.LastName, u.Phone)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RoleExists(ctx context.Context, role string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, role).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return ok, nil
}

func (r *UserRepository) AddRole(ctx context.Context, email, role string) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_roles (email, role)
		SELECT email, $2 FROM users WHERE email = $1
		ON CONFLICT DO NOTHING
	`, customer.NormalizeEmail(email), role)
	if err != nil {
		return fmt.Errorf("failed to grant role %s: %w", role, err)
	}
	if tag.RowsAffected() == 0 {
		ok, err := r.Exists(ctx, email)
		if err != nil {
			return err
		}
		if !ok {
			return xerrors.ErrNotFound
		}
	}
	return nil
}

type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) AddTag(ctx context.Context, refType, refName, tag string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tag_links (document_type, document_name, tag) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, refType, refName, tag)
	if err != nil {
		return fmt.Errorf("failed to tag %s %s: %w", refType, refName, err)
	}
	return nil
}

func (r *TagRepository) HasTag(ctx context.Context, refType, refName, tag string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tag_links WHERE document_type = $1 AND document_name = $2 AND tag = $3
		)
	`, refType, refName, tag).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to read tags: %w", err)
	}
	return ok, nil
}

type TodoRepository struct {
	db *pgxpool.Pool
}

func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, t *account.ToDo) error {
	if t.ID == "" {
		t.ID = ids.New(ids.PrefixToDo)
	}
	if t.Status == "" {
		t.Status = account.TodoOpen
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO todos (id, allocated_to, reference_type, reference_name, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, t.ID, t.AllocatedTo, t.ReferenceType, t.ReferenceName, t.Description, t.Status).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// ListOpen returns open tasks; an empty allocatedTo lists everyone's.
func (r *TodoRepository) ListOpen(ctx context.Context, allocatedTo string) ([]account.ToDo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, allocated_to, reference_type, reference_name, description, status, created_at
		FROM todos
		WHERE status = $1 AND ($2 = '' OR allocated_to = $2)
		ORDER BY created_at
	`, account.TodoOpen, allocatedTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var out []account.ToDo
	for rows.Next() {
		var t account.ToDo
		if err := rows.Scan(&t.ID, &t.AllocatedTo, &t.ReferenceType, &t.ReferenceName, &t.Description, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
