// internal/domain/account/entity.go
package account

import (
	"context"
	"time"
)

const (
	RoleCustomer        = "Customer"
	Administrator       = "Administrator"
	TagWholesalePending = "Wholesale Pending"

	TodoOpen   = "Open"
	TodoClosed = "Closed"
)

// User is a login account. Email is the login name.
type User struct {
	Email            string    `json:"email" db:"email"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name,omitempty" db:"last_name"`
	Phone            string    `json:"phone,omitempty" db:"phone"`
	UserType         string    `json:"user_type" db:"user_type"`
	Enabled          bool      `json:"enabled" db:"enabled"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	SendWelcomeEmail bool      `json:"send_welcome_email" db:"send_welcome_email"`
	Roles            []string  `json:"roles"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ToDo is a task assigned to a staff user about a referenced record.
type ToDo struct {
	ID            string    `json:"name" db:"id"`
	AllocatedTo   string    `json:"allocated_to" db:"allocated_to"`
	ReferenceType string    `json:"reference_type" db:"reference_type"`
	ReferenceName string    `json:"reference_name" db:"reference_name"`
	Description   string    `json:"description" db:"description"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u *User) error
	RoleExists(ctx context.Context, role string) (bool, error)
	AddRole(ctx context.Context, email, role string) error
}

type TagRepository interface {
	AddTag(ctx context.Context, refType, refName, tag string) error
	HasTag(ctx context.Context, refType, refName, tag string) (bool, error)
}

type TodoRepository interface {
	Create(ctx context.Context, t *ToDo) error
	ListOpen(ctx context.Context, allocatedTo string) ([]ToDo, error)
}
