package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/application"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/response"
)

// CustomerHandler handles HTTP requests for customer profiles.
type CustomerHandler struct {
	service *application.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *application.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/customers/:email", h.GetCustomer)
}

// GetCustomer handles GET /api/v1/customers/:email.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	result, err := h.service.GetCustomer(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
