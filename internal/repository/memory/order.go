// internal/repository/memory/order.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"storefront-service/internal/domain/order"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/ids"
)

type orderRepo struct{ s *Store }

func (r *orderRepo) RegisterInterceptor(in order.Interceptor) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.interceptors = append(r.s.interceptors, in)
}

func (r *orderRepo) Insert(ctx context.Context, o *order.Order) error {
	// Interceptors read and write other stores, so they run unlocked.
	r.s.mu.Lock()
	chain := append(order.InterceptorChain(nil), r.s.interceptors...)
	r.s.mu.Unlock()

	if err := chain.BeforeInsert(ctx, o); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == "" {
		o.ID = ids.New(ids.PrefixOrder)
	}
	for _, existing := range r.s.orders {
		if existing.ID == o.ID {
			return fmt.Errorf("order %s: %w", o.ID, xerrors.ErrConflict)
		}
	}
	now := time.Now()
	o.Status = order.StatusDraft
	if o.TransactionDate.IsZero() {
		o.TransactionDate = now
	}
	o.CreatedAt, o.UpdatedAt = now, now
	o.Recalculate()
	r.s.orders = append(r.s.orders, copyOrder(o))
	return nil
}

func (r *orderRepo) Submit(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.ID != id {
			continue
		}
		if err := o.ValidateForSubmit(); err != nil {
			return err
		}
		o.Status = order.StatusFinalized
		o.UpdatedAt = time.Now()
		return nil
	}
	return xerrors.ErrNotFound
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []order.Order
	for _, o := range r.s.orders {
		if o.Customer == customerID {
			out = append(out, *copyOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyOrder(o *order.Order) *order.Order {
	out := *o
	out.Items = append([]order.Item(nil), o.Items...)
	return &out
}

// OrderCount reports how many orders exist. Test helper.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
