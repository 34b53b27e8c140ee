package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
	"github.com/iliyamo/event-vendor-marketplace/internal/service"
)

// CreateBooking handles POST /v1/bookings. The authenticated caller
// becomes the organizer; the body names the vendor, the service, the
// event and the agreed price in minor units. Returns 201 with the
// pending booking.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		EventID          uint64 `json:"event_id"`
		ServiceID        uint64 `json:"service_id"`
		VendorID         uint64 `json:"vendor_id"`
		PriceAgreedCents int64  `json:"price_agreed_cents"`
		EventDate        string `json:"event_date"`
		Notes            string `json:"notes"`
		Requirements     string `json:"requirements"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VendorID == 0 || body.EventID == 0 || body.ServiceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id, service_id and vendor_id are required"})
	}
	eventDate, err := time.Parse(time.RFC3339, body.EventDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_date must be RFC3339"})
	}
	b, err := h.Svc.Create(c.Request().Context(), userID, service.CreateInput{
		EventID:          body.EventID,
		ServiceID:        body.ServiceID,
		VendorID:         body.VendorID,
		PriceAgreedCents: body.PriceAgreedCents,
		EventDate:        eventDate,
		Notes:            body.Notes,
		Requirements:     body.Requirements,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// GetBooking handles GET /v1/bookings/:id. Only participants may read
// a booking; the response includes the derived payment fields and the
// actions currently available to the caller.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.GetBooking(c.Request().Context(), id, userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":        b,
		"balance_cents":  b.BalanceCents(),
		"payment_status": b.PaymentState(),
		"actions":        model.AllowedActions(b, userID),
	})
}

// ListBookings handles GET /v1/bookings. Returns the caller's catalog:
// bookings partitioned by role with derived payment fields, available
// actions and tab counts. The optional ?status= query narrows the
// lists without changing the counts.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	filter := model.Status(c.QueryParam("status"))
	if filter != "" && !model.ValidStatus(filter) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	cat, err := h.Svc.ListForCaller(c.Request().Context(), userID, filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// transition is the shared body of the four status endpoints.
func (h *BookingHandler) transition(c echo.Context, do func(ctx echo.Context, bookingID, userID uint64) (*model.Booking, error)) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := do(c, id, userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// ConfirmBooking handles POST /v1/bookings/:id/confirm (vendor).
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	return h.transition(c, func(ec echo.Context, bookingID, userID uint64) (*model.Booking, error) {
		return h.Svc.Confirm(ec.Request().Context(), bookingID, userID)
	})
}

// StartBooking handles POST /v1/bookings/:id/start (vendor).
func (h *BookingHandler) StartBooking(c echo.Context) error {
	return h.transition(c, func(ec echo.Context, bookingID, userID uint64) (*model.Booking, error) {
		return h.Svc.Start(ec.Request().Context(), bookingID, userID)
	})
}

// CompleteBooking handles POST /v1/bookings/:id/complete (vendor).
func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	return h.transition(c, func(ec echo.Context, bookingID, userID uint64) (*model.Booking, error) {
		return h.Svc.Complete(ec.Request().Context(), bookingID, userID)
	})
}

// CancelBooking handles POST /v1/bookings/:id/cancel. Either party may
// cancel while the booking is pending or confirmed; the optional
// reason is stored on the record.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	return h.transition(c, func(ec echo.Context, bookingID, userID uint64) (*model.Booking, error) {
		var body struct {
			Reason string `json:"reason"`
		}
		_ = ec.Bind(&body) // body is optional
		return h.Svc.Cancel(ec.Request().Context(), bookingID, userID, body.Reason)
	})
}

// UpdateBookingNotes handles PATCH /v1/bookings/:id/notes (organizer,
// pending or confirmed only).
func (h *BookingHandler) UpdateBookingNotes(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Notes        string `json:"notes"`
		Requirements string `json:"requirements"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Svc.UpdateNotes(c.Request().Context(), id, userID, body.Notes, body.Requirements)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// RefundBooking handles POST /v1/admin/bookings/:id/refund. The route
// is mounted behind the admin guard; the engine itself only validates
// the state and the amount.
func (h *BookingHandler) RefundBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Svc.Refund(c.Request().Context(), id, body.AmountCents)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
