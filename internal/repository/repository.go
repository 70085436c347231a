// internal/repository/repository.go
package repository

import (
	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/lead"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/portal"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/domain/settings"
)

// Set is every store the services depend on, from one backend.
type Set struct {
	Customers    customer.Repository
	Contacts     customer.ContactRepository
	Addresses    customer.AddressRepository
	Pricing      pricing.Repository
	Items        catalog.ItemRepository
	Warehouses   catalog.WarehouseRepository
	Companies    catalog.CompanyRepository
	PaymentTerms catalog.PaymentTermsRepository
	WebsiteItems catalog.WebsiteItemRepository
	Orders       order.Repository
	Users        account.Repository
	Tags         account.TagRepository
	Todos        account.TodoRepository
	Leads        lead.Repository
	Portal       portal.Repository
	Settings     settings.Repository
}
