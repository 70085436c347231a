// internal/handlers/cart/cart.go
package cart

import (
	"net/http"
	"strings"

	"storefront-service/internal/domain/cart"
	"storefront-service/internal/pkg/response"
	service "storefront-service/internal/service/cart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "cart_id"
	HeaderName = "X-Cart-ID"

	cookieMaxAge = 30 * 24 * 60 * 60
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// CartID reads the visitor's cart id from the header, then the cookie.
func CartID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(HeaderName)); id != "" {
		return id
	}
	if id, err := c.Cookie(CookieName); err == nil {
		return strings.TrimSpace(id)
	}
	return ""
}

// UpdateCart sets the quantity of one item in the visitor's cart. A visitor
// without a cart gets a new id.
func (h *CartHandler) UpdateCart(c *gin.Context) {
	var req cart.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	cartID := CartID(c)
	if cartID == "" {
		cartID = uuid.NewString()
	}

	result, err := h.cartService.UpdateCart(c.Request.Context(), cartID, req.ItemCode, req.Quantity())
	if err != nil {
		response.FromError(c, "failed to update cart", err)
		return
	}

	c.SetCookie(CookieName, cartID, cookieMaxAge, "/", "", false, true)
	c.Header(HeaderName, cartID)
	response.Success(c, http.StatusOK, "cart updated", result)
}

// GetCart returns the cart summary; failures yield an empty cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	response.Success(c, http.StatusOK, "cart retrieved", h.cartService.Summary(c.Request.Context(), CartID(c)))
}
