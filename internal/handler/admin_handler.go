package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/application"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/response"
)

// AdminHandler handles admin HTTP requests.
type AdminHandler struct {
	bookings    *application.BookingService
	guesthouses *application.GuesthouseService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, guesthouses *application.GuesthouseService) *AdminHandler {
	return &AdminHandler{bookings: bookings, guesthouses: guesthouses}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.GET("/waitlist", h.WaitingList)
		admin.GET("/revenue", h.MonthlyRevenue)
		admin.POST("/guesthouses/:id/promotion", h.ApplyPromotion)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// WaitingList handles GET /api/v1/admin/waitlist.
func (h *AdminHandler) WaitingList(c *gin.Context) {
	response.Success(c, h.bookings.WaitingList(c.Request.Context()))
}

// MonthlyRevenue handles GET /api/v1/admin/revenue?year=&month=. Defaults to the current month.
func (h *AdminHandler) MonthlyRevenue(c *gin.Context) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		response.BadRequest(c, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		response.BadRequest(c, "invalid month")
		return
	}

	result, err := h.guesthouses.MonthlyRevenue(c.Request.Context(), year, time.Month(month))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ApplyPromotion handles POST /api/v1/admin/guesthouses/:id/promotion.
func (h *AdminHandler) ApplyPromotion(c *gin.Context) {
	var req application.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.guesthouses.ApplyPromotion(c.Request.Context(), c.Param("id"), req.Rate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
