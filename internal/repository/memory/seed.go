// internal/repository/memory/seed.go
package memory

import (
	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/portal"
	"storefront-service/internal/domain/pricing"
)

// Seeding helpers for reference data the storefront only reads.

func (s *Store) AddItem(it catalog.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ItemCode] = it
}

func (s *Store) AddItemDefault(d catalog.ItemDefault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemDefaults[itemDefaultKey{d.ItemCode, d.Company}] = d
}

func (s *Store) AddWarehouse(w catalog.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses = append(s.warehouses, w)
}

func (s *Store) AddCompany(c catalog.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = append(s.companies, c)
}

func (s *Store) AddPaymentTerms(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentTerms[name] = true
}

func (s *Store) AddPriceList(p pricing.PriceList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceLists = append(s.priceLists, p)
}

func (s *Store) SetItemPrice(itemCode, priceList string, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemPrices[priceKey{itemCode, priceList}] = rate
}

func (s *Store) AddWebsiteItem(w catalog.WebsiteItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.websiteItems = append(s.websiteItems, w)
}

func (s *Store) AddReview(itemCode string, r catalog.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[itemCode] = append(s.reviews[itemCode], r)
}

// DropReviewTable makes the store behave as if no review table exists.
func (s *Store) DropReviewTable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewsTable = false
}

func (s *Store) AddRole(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role] = true
}

func (s *Store) AddInvoice(customerID string, inv portal.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[customerID] = append(s.invoices[customerID], inv)
}

func (s *Store) AddPayment(customerID string, p portal.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[customerID] = append(s.payments[customerID], p)
}
