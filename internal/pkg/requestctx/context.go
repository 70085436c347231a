// Package requestctx carries request-scoped values that are not part of the
// caller identity: the request id and the per-request column cache.
package requestctx

import (
	"context"
	"sync"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	columnCacheKey
)

// WithRequestID stores the request id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ColumnCache memoizes the column sets of tables for one request.
type ColumnCache struct {
	mu     sync.Mutex
	tables map[string]map[string]bool
}

// WithColumnCache attaches a fresh column cache to ctx.
func WithColumnCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, columnCacheKey, &ColumnCache{tables: map[string]map[string]bool{}})
}

// Columns returns the cache on ctx, or nil when the request has none.
func Columns(ctx context.Context) *ColumnCache {
	cache, _ := ctx.Value(columnCacheKey).(*ColumnCache)
	return cache
}

// Get returns the cached column set of table.
func (c *ColumnCache) Get(table string) (map[string]bool, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cols, ok := c.tables[table]
	return cols, ok
}

// Put stores the column set of table.
func (c *ColumnCache) Put(table string, cols map[string]bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[table] = cols
}
