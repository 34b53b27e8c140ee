package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RecordPayment handles POST /v1/bookings/:id/payments. Only the
// organizer may record payments; the amount must be positive and must
// not exceed the outstanding balance. An optional external_ref ties
// the entry to an upstream processor transaction and dedupes retries.
func (h *BookingHandler) RecordPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		AmountCents int64  `json:"amount_cents"`
		Method      string `json:"method"`
		ExternalRef string `json:"external_ref"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Method == "" {
		body.Method = "manual"
	}
	b, err := h.Svc.RecordPayment(c.Request().Context(), id, userID, body.AmountCents, body.Method, body.ExternalRef)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking":        b,
		"balance_cents":  b.BalanceCents(),
		"payment_status": b.PaymentState(),
	})
}

// GetBalance handles GET /v1/bookings/:id/balance. Returns the
// outstanding amount with the derived payment status.
func (h *BookingHandler) GetBalance(c echo.Context) error {
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
		"booking_id":         b.ID,
		"price_agreed_cents": b.PriceAgreedCents,
		"price_paid_cents":   b.PricePaidCents,
		"balance_cents":      b.BalanceCents(),
		"payment_status":     b.PaymentState(),
	})
}

// ListPayments handles GET /v1/bookings/:id/payments. Returns the
// booking's ledger entries in recorded order to either participant.
func (h *BookingHandler) ListPayments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	entries, err := h.Svc.ListPayments(c.Request().Context(), id, userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}
