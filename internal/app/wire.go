// internal/app/wire.go
package app

import (
	"storefront-service/internal/config"
	domaincart "storefront-service/internal/domain/cart"
	accountHandler "storefront-service/internal/handlers/account"
	cartHandler "storefront-service/internal/handlers/cart"
	checkoutHandler "storefront-service/internal/handlers/checkout"
	contactHandler "storefront-service/internal/handlers/contact"
	pagesHandler "storefront-service/internal/handlers/pages"
	wsHandler "storefront-service/internal/handlers/websocket"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/pkg/session"
	"storefront-service/internal/repository"
	accountsvc "storefront-service/internal/service/account"
	cartsvc "storefront-service/internal/service/cart"
	checkoutsvc "storefront-service/internal/service/checkout"
	customersvc "storefront-service/internal/service/customer"
	"storefront-service/internal/service/hook"
	leadsvc "storefront-service/internal/service/lead"
	pricingsvc "storefront-service/internal/service/pricing"
	storefrontsvc "storefront-service/internal/service/storefront"
	"storefront-service/internal/websocket"

	"go.uber.org/zap"
)

// infra is what Start connects before any service exists.
type infra struct {
	Set       repository.Set
	CartStore domaincart.Store // nil: cart unavailable
	Tokens    *jwt.Generator   // nil: login disabled
	Verifier  *jwt.Verifier
	Limiter   *session.RateLimiter
	Mailer    accountsvc.Mailer
	Hub       *websocket.Hub
}

// buildHandlers wires services over in and registers the order hook on
// in.Set.Orders. It is the single place the service graph is assembled.
func buildHandlers(cfg config.AppConfig, in infra, logger *zap.Logger) (*Handlers, *accountsvc.AccountService) {
	set := in.Set

	// ----- Services (Usecases) -----
	pricingService := pricingsvc.NewPricingService(set.Pricing, set.Settings, cfg.DefaultCurrency, logger)
	customerService := customersvc.NewCustomerService(set.Customers, set.Contacts, set.Addresses, pricingService, logger)

	accountDeps := accountsvc.Deps{
		Users:     set.Users,
		Tags:      set.Tags,
		Todos:     set.Todos,
		Contacts:  set.Contacts,
		Addresses: set.Addresses,
		Directory: customerService,
		Tokens:    in.Tokens,
		Limiter:   in.Limiter,
		Mailer:    in.Mailer,
		Site:      accountsvc.Site{Title: cfg.SiteTitle, URL: cfg.SiteURL},
	}
	checkoutDeps := checkoutsvc.Deps{
		Directory:    customerService,
		Pricing:      pricingService,
		Contacts:     set.Contacts,
		Addresses:    set.Addresses,
		Prices:       set.Pricing,
		Items:        set.Items,
		Warehouses:   set.Warehouses,
		Companies:    set.Companies,
		PaymentTerms: set.PaymentTerms,
		Settings:     set.Settings,
		Orders:       set.Orders,
	}
	if in.Hub != nil {
		accountDeps.Notifier = in.Hub
		checkoutDeps.Notifier = in.Hub
	}

	accountService := accountsvc.NewAccountService(accountDeps, logger)
	checkoutDeps.Profiles = accountService

	// Every order insert, whatever the entry point, passes the web-customer hook.
	set.Orders.RegisterInterceptor(hook.NewWebCustomerHook(customerService, accountService, pricingService, logger))

	checkoutService := checkoutsvc.NewCheckoutService(checkoutDeps, logger)
	leadService := leadsvc.NewLeadService(set.Leads, in.Limiter, logger)
	cartService := cartsvc.NewCartService(cartsvc.NewRegistry(in.CartStore), set.Items, set.Pricing, logger)

	storefrontService := storefrontsvc.NewStorefrontService(storefrontsvc.Deps{
		WebsiteItems: set.WebsiteItems,
		Items:        set.Items,
		Prices:       set.Pricing,
		Customers:    set.Customers,
		Directory:    customerService,
		Tags:         set.Tags,
		Orders:       set.Orders,
		Portal:       set.Portal,
		Settings:     set.Settings,
		Users:        accountService,
		Carts:        cartService,
		Site: storefrontsvc.SiteInfo{
			Name:        cfg.SiteTitle,
			URL:         cfg.SiteURL,
			Description: cfg.SiteDescription,
		},
	}, logger)

	// ----- Handlers -----
	h := &Handlers{
		ContactHandler:  contactHandler.NewContactHandler(leadService),
		CartHandler:     cartHandler.NewCartHandler(cartService),
		AccountHandler:  accountHandler.NewAccountHandler(accountService, logger),
		CheckoutHandler: checkoutHandler.NewCheckoutHandler(checkoutService),
		PagesHandler:    pagesHandler.NewPagesHandler(storefrontService),
		AuthMiddleware:  middleware.NewAuthMiddleware(in.Verifier),
	}
	if in.Hub != nil {
		h.WSHandler = wsHandler.NewWebSocketHandler(in.Hub, cfg.CORSOrigins, logger)
	}
	return h, accountService
}
