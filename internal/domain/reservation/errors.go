package reservation

import (
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// Errors returned by the engine. Match with errors.Is; messages carry the details.
var (
	ErrInsufficientFunds        = customer.ErrInsufficientFunds
	ErrBookingNotFound          = domain.NewError(domain.KindNotFound, "BOOKING_NOT_FOUND", "booking not found")
	ErrGuesthouseNotFound       = domain.NewError(domain.KindNotFound, "GUESTHOUSE_NOT_FOUND", "guesthouse not found")
	ErrCustomerNotFound         = domain.NewError(domain.KindNotFound, "CUSTOMER_NOT_FOUND", "customer not found")
	ErrAlreadyCancelled         = domain.NewError(domain.KindConflict, "ALREADY_CANCELLED", "booking already cancelled")
	ErrCancellationWindowClosed = domain.NewError(domain.KindUnprocessable, "CANCELLATION_WINDOW_CLOSED", "cancellation window closed")
	ErrCapacityExceeded         = domain.NewError(domain.KindUnprocessable, "CAPACITY_EXCEEDED", "party size exceeds guesthouse capacity")
	ErrCapacityUnavailable      = domain.NewError(domain.KindConflict, "CAPACITY_UNAVAILABLE", "no capacity for the requested dates")
	ErrNotOwner                 = domain.NewError(domain.KindForbidden, "NOT_BOOKING_OWNER", "booking does not belong to this customer")
	ErrDuplicate                = domain.NewError(domain.KindConflict, "DUPLICATE", "already registered")
)
