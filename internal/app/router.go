// internal/app/router.go
package app

import (
	accountHandler "storefront-service/internal/handlers/account"
	cartHandler "storefront-service/internal/handlers/cart"
	checkoutHandler "storefront-service/internal/handlers/checkout"
	contactHandler "storefront-service/internal/handlers/contact"
	pagesHandler "storefront-service/internal/handlers/pages"
	wsHandler "storefront-service/internal/handlers/websocket"
	"storefront-service/internal/middleware"
	accountsvc "storefront-service/internal/service/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	ContactHandler  *contactHandler.ContactHandler
	CartHandler     *cartHandler.CartHandler
	AccountHandler  *accountHandler.AccountHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
	PagesHandler    *pagesHandler.PagesHandler
	WSHandler       *wsHandler.WebSocketHandler // nil: hub disabled
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	if h.WSHandler != nil {
		r.GET("/ws", h.WSHandler.HandleConnection)
	}

	// Every route below sees a Principal, Guest when unauthenticated.
	api.Use(h.AuthMiddleware.Identify())

	// ==================== Public Routes ====================
	api.POST("/contact", h.ContactHandler.SubmitContact)
	api.POST("/signup", h.AccountHandler.Signup)
	api.POST("/auth/login", h.AccountHandler.Login)

	cart := api.Group("/cart")
	{
		cart.GET("", h.CartHandler.GetCart)
		cart.POST("", h.CartHandler.UpdateCart)
	}

	checkout := api.Group("/checkout")
	{
		checkout.GET("/profile", h.CheckoutHandler.GetProfile)
		checkout.POST("/orders", h.CheckoutHandler.PlaceOrder)
	}

	pages := api.Group("/pages")
	{
		pages.GET("/site", h.PagesHandler.Site)
		pages.GET("/home", h.PagesHandler.Home)
		pages.GET("/store", h.PagesHandler.Store)
		pages.GET("/store/:item", h.PagesHandler.Item)
		pages.GET("/portal", h.PagesHandler.Portal)
		pages.GET("/redirect/:page", h.PagesHandler.Redirect)
	}

	// ==================== Logged-in Routes ====================
	account := api.Group("")
	account.Use(h.AuthMiddleware.RequireLogin())
	{
		account.GET("/profile", h.AccountHandler.GetProfile)
		account.PUT("/profile", h.AccountHandler.UpdateProfile)

		account.GET("/addresses", h.AccountHandler.ListAddresses)
		account.POST("/addresses", h.AccountHandler.SaveAddress)
		account.DELETE("/addresses/:name", h.AccountHandler.DeleteAddress)
	}

	// ==================== Staff Routes ====================
	if h.WSHandler != nil {
		staff := api.Group("/staff")
		staff.Use(h.AuthMiddleware.RequireLogin(), h.AuthMiddleware.RequireRole(accountsvc.StaffRole))
		{
			staff.GET("/ws/stats", h.WSHandler.GetStats)
		}
	}

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
