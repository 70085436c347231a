// internal/repository/redisstore/cart.go
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-service/internal/domain/cart"
	xerrors "storefront-service/internal/pkg/errors"
)

const (
	cartKeyPrefix = "cart:"
	// CartTTL is how long an untouched cart survives.
	CartTTL = 30 * 24 * time.Hour
)

// CartStore keeps each cart as one JSON value.
type CartStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ cart.Store = (*CartStore)(nil)

func NewCartStore(client redis.Cmdable) *CartStore {
	return &CartStore{client: client, ttl: CartTTL}
}

func (s *CartStore) Get(ctx context.Context, cartID string) (*cart.Quotation, error) {
	raw, err := s.client.Get(ctx, cartKeyPrefix+cartID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	var q cart.Quotation
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &q, nil
}

func (s *CartStore) Save(ctx context.Context, q *cart.Quotation) error {
	q.UpdatedAt = time.Now()
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+q.CartID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
