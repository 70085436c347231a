// internal/handlers/checkout/checkout.go
package checkout

import (
	"net/http"

	"storefront-service/internal/domain/checkout"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pkg/response"
	service "storefront-service/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// GetProfile pre-fills the checkout form. Guests get an empty profile.
func (h *CheckoutHandler) GetProfile(c *gin.Context) {
	result, err := h.checkoutService.CheckoutProfile(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "failed to load checkout profile", err)
		return
	}
	response.Success(c, http.StatusOK, "checkout profile", result)
}

// PlaceOrder creates the order. A draft that could not be finalized is still
// a success carrying a warning.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.FromError(c, "failed to place order", err)
		return
	}

	message := "order placed"
	if !result.Finalized {
		message = "order saved as draft"
	}
	response.Success(c, http.StatusCreated, message, result)
}
