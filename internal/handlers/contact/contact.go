// internal/handlers/contact/contact.go
package contact

import (
	"net/http"

	"storefront-service/internal/domain/lead"
	"storefront-service/internal/pkg/response"
	service "storefront-service/internal/service/lead"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	leadService *service.LeadService
}

func NewContactHandler(leadService *service.LeadService) *ContactHandler {
	return &ContactHandler{
		leadService: leadService,
	}
}

// SubmitContact records a contact-form message as a website lead.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req lead.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.SubmitContact(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, "failed to submit contact", err)
		return
	}

	response.Success(c, http.StatusCreated, "message received", gin.H{
		"ok":   true,
		"lead": result.ID,
	})
}
