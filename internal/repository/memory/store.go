// internal/repository/memory/store.go
package memory

import (
	"sync"

	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/lead"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/portal"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/repository"
)

type priceKey struct{ item, list string }
type itemDefaultKey struct{ item, company string }
type tagKey struct{ refType, refName, tag string }

// Store is an in-process backend. Rows are kept in insertion order, which is
// the order every "first row" lookup observes.
type Store struct {
	mu sync.Mutex

	customers []*customer.Customer
	contacts  []*customer.Contact
	addresses []*customer.Address

	groups     map[string]bool
	priceLists []pricing.PriceList
	itemPrices map[priceKey]decimal.Decimal

	items        map[string]catalog.Item
	itemDefaults map[itemDefaultKey]catalog.ItemDefault
	warehouses   []catalog.Warehouse
	companies    []catalog.Company
	paymentTerms map[string]bool
	websiteItems []catalog.WebsiteItem
	reviews      map[string][]catalog.Review
	reviewsTable bool

	orders       []*order.Order
	interceptors order.InterceptorChain

	users map[string]*account.User
	roles map[string]bool
	tags  map[tagKey]bool
	todos []account.ToDo

	leads    []lead.Lead
	settings map[string]string
	invoices map[string][]portal.Invoice
	payments map[string][]portal.Payment
}

func NewStore() *Store {
	return &Store{
		groups:       make(map[string]bool),
		itemPrices:   make(map[priceKey]decimal.Decimal),
		items:        make(map[string]catalog.Item),
		itemDefaults: make(map[itemDefaultKey]catalog.ItemDefault),
		paymentTerms: make(map[string]bool),
		reviews:      make(map[string][]catalog.Review),
		reviewsTable: true,
		users:        make(map[string]*account.User),
		roles:        make(map[string]bool),
		tags:         make(map[tagKey]bool),
		settings:     make(map[string]string),
		invoices:     make(map[string][]portal.Invoice),
		payments:     make(map[string][]portal.Payment),
	}
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Customers:    &customerRepo{s},
		Contacts:     &contactRepo{s},
		Addresses:    &addressRepo{s},
		Pricing:      &pricingRepo{s},
		Items:        &itemRepo{s},
		Warehouses:   &warehouseRepo{s},
		Companies:    &companyRepo{s},
		PaymentTerms: &paymentTermsRepo{s},
		WebsiteItems: &websiteItemRepo{s},
		Orders:       &orderRepo{s},
		Users:        &userRepo{s},
		Tags:         &tagRepo{s},
		Todos:        &todoRepo{s},
		Leads:        &leadRepo{s},
		Portal:       &portalRepo{s},
		Settings:     &settingsRepo{s},
	}
}

func copyLinks(links []customer.Link) []customer.Link {
	if links == nil {
		return nil
	}
	out := make([]customer.Link, len(links))
	copy(out, links)
	return out
}
