// internal/repository/memory/misc.go
package memory

import (
	"context"
	"sort"
	"time"

	"storefront-service/internal/domain/lead"
	"storefront-service/internal/domain/portal"
	"storefront-service/internal/pkg/ids"
)

type leadRepo struct{ s *Store }

func (r *leadRepo) Create(ctx context.Context, l *lead.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == "" {
		l.ID = ids.New(ids.PrefixLead)
	}
	l.CreatedAt = time.Now()
	r.s.leads = append(r.s.leads, *l)
	return nil
}

// Leads returns every stored lead. Test helper.
func (s *Store) Leads() []lead.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]lead.Lead(nil), s.leads...)
}

type portalRepo struct{ s *Store }

func (r *portalRepo) Invoices(ctx context.Context, customerID string, limit int) ([]portal.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := append([]portal.Invoice(nil), r.s.invoices[customerID]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].PostingDate.After(rows[j].PostingDate) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *portalRepo) Payments(ctx context.Context, customerID string, limit int) ([]portal.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := append([]portal.Payment(nil), r.s.payments[customerID]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].PostingDate.After(rows[j].PostingDate) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type settingsRepo struct{ s *Store }

func (r *settingsRepo) Get(ctx context.Context, key string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.settings[key], nil
}

func (r *settingsRepo) Set(ctx context.Context, key, value string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[key] = value
	return nil
}
