// internal/handlers/account/account.go
package account

import (
	"net/http"

	"storefront-service/internal/domain/account"
	"storefront-service/internal/domain/customer"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pkg/response"
	service "storefront-service/internal/service/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

func NewAccountHandler(accountService *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// ========== Signup & Login ==========

func (h *AccountHandler) Signup(c *gin.Context) {
	var req account.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.accountService.Signup(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, "signup failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "account created", result)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.accountService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.logger.Warn("login failed", zap.String("ip", c.ClientIP()), zap.Error(err))
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// ========== Profile ==========

func (h *AccountHandler) GetProfile(c *gin.Context) {
	result, err := h.accountService.GetProfile(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "failed to get profile", err)
		return
	}
	response.Success(c, http.StatusOK, "profile retrieved", result)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req customer.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.accountService.UpdateProfile(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.FromError(c, "failed to update profile", err)
		return
	}
	response.Success(c, http.StatusOK, "profile updated", result)
}

// ========== Addresses ==========

func (h *AccountHandler) ListAddresses(c *gin.Context) {
	result, err := h.accountService.ListAddresses(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "failed to list addresses", err)
		return
	}
	if result == nil {
		result = []customer.Address{}
	}
	response.Success(c, http.StatusOK, "addresses retrieved", result)
}

// SaveAddress creates an address, or updates the one named in the body.
func (h *AccountHandler) SaveAddress(c *gin.Context) {
	var req customer.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.accountService.SaveAddress(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.FromError(c, "failed to save address", err)
		return
	}
	response.Success(c, http.StatusOK, "address saved", result)
}

func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	name := c.Param("name")
	if err := h.accountService.DeleteAddress(c.Request.Context(), middleware.GetPrincipal(c), name); err != nil {
		response.FromError(c, "failed to delete address", err)
		return
	}
	response.Success(c, http.StatusOK, "address deleted", gin.H{"ok": true})
}
