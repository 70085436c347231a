// internal/repository/memory/account.go
package memory

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/ids"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *account.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := customer.NormalizeEmail(u.Email)
	if _, ok := r.s.users[key]; ok {
		return fmt.Errorf("user %s: %w", u.Email, xerrors.ErrConflict)
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	row := *u
	row.Roles = append([]string(nil), u.Roles...)
	r.s.users[key] = &row
	return nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[customer.NormalizeEmail(email)]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	out := *u
	out.Roles = append([]string(nil), u.Roles...)
	return &out, nil
}

func (r *userRepo) Exists(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[customer.NormalizeEmail(email)]
	return ok, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, u *account.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[customer.NormalizeEmail(u.Email)]
	if !ok {
		return xerrors.ErrNotFound
	}
	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	existing.Phone = u.Phone
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *userRepo) RoleExists(ctx context.Context, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.roles[role], nil
}

func (r *userRepo) AddRole(ctx context.Context, email, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[customer.NormalizeEmail(email)]
	if !ok {
		return xerrors.ErrNotFound
	}
	for _, existing := range u.Roles {
		if existing == role {
			return nil
		}
	}
	u.Roles = append(u.Roles, role)
	return nil
}

// UserCount reports how many login accounts exist. Test helper.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type tagRepo struct{ s *Store }

func (r *tagRepo) AddTag(ctx context.Context, refType, refName, tag string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tags[tagKey{refType, refName, tag}] = true
	return nil
}

func (r *tagRepo) HasTag(ctx context.Context, refType, refName, tag string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tags[tagKey{refType, refName, tag}], nil
}

type todoRepo struct{ s *Store }

func (r *todoRepo) Create(ctx context.Context, t *account.ToDo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = ids.New(ids.PrefixToDo)
	}
	if t.Status == "" {
		t.Status = account.TodoOpen
	}
	t.CreatedAt = time.Now()
	r.s.todos = append(r.s.todos, *t)
	return nil
}

func (r *todoRepo) ListOpen(ctx context.Context, allocatedTo string) ([]account.ToDo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []account.ToDo
	for _, t := range r.s.todos {
		if t.Status == account.TodoOpen && (allocatedTo == "" || t.AllocatedTo == allocatedTo) {
			out = append(out, t)
		}
	}
	return out, nil
}
