package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/application"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/response"
)

// GuesthouseHandler handles HTTP requests for the guesthouse catalog.
type GuesthouseHandler struct {
	service *application.GuesthouseService
}

// NewGuesthouseHandler creates a new GuesthouseHandler.
func NewGuesthouseHandler(service *application.GuesthouseService) *GuesthouseHandler {
	return &GuesthouseHandler{service: service}
}

// RegisterRoutes registers catalog routes.
func (h *GuesthouseHandler) RegisterRoutes(r *gin.RouterGroup) {
	ghs := r.Group("/api/v1/guesthouses")
	{
		ghs.GET("", h.ListGuesthouses)
		ghs.GET("/occupancy", h.AggregateOccupancy)
		ghs.GET("/:id", h.GetGuesthouse)
		ghs.GET("/:id/features/:feature", h.HasFeature)
		ghs.GET("/:id/occupancy", h.Occupancy)
		ghs.GET("/:id/bookings", h.ListBookings)
	}
}

// ListGuesthouses handles GET /api/v1/guesthouses.
func (h *GuesthouseHandler) ListGuesthouses(c *gin.Context) {
	response.Success(c, h.service.ListGuesthouses(c.Request.Context()))
}

// GetGuesthouse handles GET /api/v1/guesthouses/:id.
func (h *GuesthouseHandler) GetGuesthouse(c *gin.Context) {
	result, err := h.service.GetGuesthouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// HasFeature handles GET /api/v1/guesthouses/:id/features/:feature.
func (h *GuesthouseHandler) HasFeature(c *gin.Context) {
	result, err := h.service.HasFeature(c.Request.Context(), c.Param("id"), c.Param("feature"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Occupancy handles GET /api/v1/guesthouses/:id/occupancy?date=.
func (h *GuesthouseHandler) Occupancy(c *gin.Context) {
	d, ok := parseDateQuery(c)
	if !ok {
		return
	}
	result, err := h.service.OccupancyRate(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AggregateOccupancy handles GET /api/v1/guesthouses/occupancy?date=.
func (h *GuesthouseHandler) AggregateOccupancy(c *gin.Context) {
	d, ok := parseDateQuery(c)
	if !ok {
		return
	}
	result, err := h.service.AggregateOccupancyRate(c.Request.Context(), d)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBookings handles GET /api/v1/guesthouses/:id/bookings.
func (h *GuesthouseHandler) ListBookings(c *gin.Context) {
	result, err := h.service.ListGuesthouseBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// parseDateQuery reads ?date=YYYY-MM-DD, defaulting to today.
func parseDateQuery(c *gin.Context) (calendar.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		return calendar.DateOf(time.Now()), true
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return calendar.Date{}, false
	}
	return d, true
}
