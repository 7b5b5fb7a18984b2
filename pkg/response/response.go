package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// Envelope is the JSON body returned by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Pagination `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination is attached to paginated list responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Accepted writes 202 with data.
func Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, Envelope{Success: true, Data: data})
}

// BadRequest writes 400 with a validation message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Error: &ErrorBody{Code: "BAD_REQUEST", Message: message}})
}

// Paginated writes 200 with a page of items.
func Paginated[T any](c *gin.Context, items []T, total int64, page, limit int) {
	p := domain.NewPaginatedResult(items, total, page, limit)
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    p.Items,
		Meta: &Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	})
}

// Error maps domain errors to their HTTP status; anything else is a 500 with a generic message.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(de.Kind.HTTPStatus(), Envelope{Error: &ErrorBody{Code: de.Code, Message: de.Message}})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Envelope{
		Error: &ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
	})
}
