package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/application"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/response"
)

// BookingHandler handles HTTP requests for a customer's bookings.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/customers/:email")
	{
		bookings.GET("/bookings", h.ListBookings)
		bookings.POST("/bookings", h.CreateBooking)
		bookings.GET("/bookings/:id", h.GetBooking)
		bookings.PUT("/bookings/:id", h.UpdateBooking)
		bookings.POST("/bookings/:id/cancel", h.CancelBooking)
		bookings.GET("/recommendations", h.Recommend)
	}
}

// CreateBooking handles POST /api/v1/customers/:email/bookings.
// A committed booking answers 201; a queued request answers 202.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.ID == nil {
		response.Accepted(c, result)
		return
	}
	response.Created(c, result)
}

// ListBookings handles GET /api/v1/customers/:email/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	result, err := h.service.ListCustomerBookings(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBooking handles GET /api/v1/customers/:email/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), c.Param("email"), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBooking handles PUT /api/v1/customers/:email/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), c.Param("email"), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/customers/:email/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("email"), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Recommend handles GET /api/v1/customers/:email/recommendations.
func (h *BookingHandler) Recommend(c *gin.Context) {
	result, err := h.service.Recommend(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
