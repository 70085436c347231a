// internal/handlers/pages/pages.go
package pages

import (
	"net/http"

	"storefront-service/internal/domain/storefront"
	cartHandler "storefront-service/internal/handlers/cart"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pkg/response"
	service "storefront-service/internal/service/storefront"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the context each storefront page renders from.
type PagesHandler struct {
	storefrontService *service.StorefrontService
}

func NewPagesHandler(storefrontService *service.StorefrontService) *PagesHandler {
	return &PagesHandler{
		storefrontService: storefrontService,
	}
}

func (h *PagesHandler) Site(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	response.Success(c, http.StatusOK, "site context", h.storefrontService.SiteContext(c.Request.Context(), path))
}

func (h *PagesHandler) Home(c *gin.Context) {
	result, err := h.storefrontService.HomeContext(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load home page", err)
		return
	}
	response.Success(c, http.StatusOK, "home context", result)
}

func (h *PagesHandler) Store(c *gin.Context) {
	q := storefront.ParseListingQuery(
		c.Query("q"),
		c.Query("category"),
		c.Query("min_price"),
		c.Query("max_price"),
		c.Query("page"),
		c.Query("page_size"),
	)

	result, err := h.storefrontService.StoreListing(c.Request.Context(), q, cartHandler.CartID(c))
	if err != nil {
		response.FromError(c, "failed to load products", err)
		return
	}
	response.Success(c, http.StatusOK, "store listing", result)
}

func (h *PagesHandler) Item(c *gin.Context) {
	result, err := h.storefrontService.ItemPage(c.Request.Context(), middleware.GetPrincipal(c), c.Param("item"))
	if err != nil {
		response.FromError(c, "product not found", err)
		return
	}
	response.Success(c, http.StatusOK, "item page", result)
}

func (h *PagesHandler) Portal(c *gin.Context) {
	result, err := h.storefrontService.PortalDashboard(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "failed to load portal", err)
		return
	}
	response.Success(c, http.StatusOK, "portal dashboard", result)
}

// Redirect reports where a guarded page sends the caller, if anywhere.
func (h *PagesHandler) Redirect(c *gin.Context) {
	result, err := h.storefrontService.Redirect(c.Request.Context(), middleware.GetPrincipal(c), c.Param("page"))
	if err != nil {
		response.FromError(c, "unknown page", err)
		return
	}
	response.Success(c, http.StatusOK, "page guard", result)
}
