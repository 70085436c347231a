// internal/service/storefront/storefront.go
package storefront

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/cart"
	"storefront-service/internal/domain/catalog"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/domain/order"
	"storefront-service/internal/domain/portal"
	"storefront-service/internal/domain/pricing"
	"storefront-service/internal/domain/settings"
)

type Directory interface {
	CustomerForUser(ctx context.Context, email string) (string, error)
}

type UserTypes interface {
	UserType(ctx context.Context, email string) (string, error)
}

type CartSummaries interface {
	Summary(ctx context.Context, cartID string) cart.Summary
}

// SiteInfo is the public identity of the storefront.
type SiteInfo struct {
	Name        string
	URL         string
	Description string
}

type Deps struct {
	WebsiteItems catalog.WebsiteItemRepository
	Items        catalog.ItemRepository
	Prices       pricing.Repository
	Customers    customer.Repository
	Directory    Directory
	Tags         account.TagRepository
	Orders       order.Repository
	Portal       portal.Repository
	Settings     settings.Repository
	Users        UserTypes
	Carts        CartSummaries
	Site         SiteInfo
}

// StorefrontService builds the data behind each storefront page.
type StorefrontService struct {
	websiteItems catalog.WebsiteItemRepository
	items        catalog.ItemRepository
	prices       pricing.Repository
	customers    customer.Repository
	directory    Directory
	tags         account.TagRepository
	orders       order.Repository
	portal       portal.Repository
	settings     settings.Repository
	users        UserTypes
	carts        CartSummaries
	site         SiteInfo
	now          func() time.Time
	intn         func(n int) int
	logger       *zap.Logger
}

func NewStorefrontService(d Deps, logger *zap.Logger) *StorefrontService {
	return &StorefrontService{
		websiteItems: d.WebsiteItems,
		items:        d.Items,
		prices:       d.Prices,
		customers:    d.Customers,
		directory:    d.Directory,
		tags:         d.Tags,
		orders:       d.Orders,
		portal:       d.Portal,
		settings:     d.Settings,
		users:        d.Users,
		carts:        d.Carts,
		site:         d.Site,
		now:          time.Now,
		intn:         rand.Intn,
		logger:       logger,
	}
}
