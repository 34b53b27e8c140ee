package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
	"github.com/iliyamo/event-vendor-marketplace/internal/repository"
	"github.com/iliyamo/event-vendor-marketplace/internal/service"
)

// BookingHandler exposes the booking engine over HTTP. All methods
// assume JWT authentication has already run; the caller id comes from
// the context and the engine derives the caller's role per booking.
type BookingHandler struct {
	Svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler. The service must be
// non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. The JWT middleware stores the subject claim without a fixed
// type, so every plausible representation is accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// domainError maps engine errors onto HTTP responses. Validation and
// permission failures each have a fixed status so clients can branch on
// them; anything unrecognized is a 500.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, repository.ErrReviewNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid transition for current status"})
	case errors.Is(err, model.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	case errors.Is(err, model.ErrOverpayment):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "payment exceeds outstanding balance"})
	case errors.Is(err, model.ErrDuplicatePayment):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate payment reference"})
	case errors.Is(err, model.ErrRatingRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	case errors.Is(err, model.ErrReviewTextRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "review text is required"})
	case errors.Is(err, model.ErrAlreadyReviewed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
	case errors.Is(err, model.ErrAlreadyResponded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "review already has a response"})
	case errors.Is(err, repository.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking was modified concurrently, retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
