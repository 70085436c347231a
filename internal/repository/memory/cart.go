// internal/repository/memory/cart.go
package memory

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/domain/cart"
	xerrors "storefront-service/internal/pkg/errors"
)

// CartStore is a process-local cart.Store.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]cart.Quotation
}

var _ cart.Store = (*CartStore)(nil)

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]cart.Quotation)}
}

func (s *CartStore) Get(ctx context.Context, cartID string) (*cart.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.carts[cartID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	q.Items = append([]cart.QuotationItem(nil), q.Items...)
	return &q, nil
}

func (s *CartStore) Save(ctx context.Context, q *cart.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.UpdatedAt = time.Now()
	row := *q
	row.Items = append([]cart.QuotationItem(nil), q.Items...)
	s.carts[q.CartID] = row
	return nil
}
