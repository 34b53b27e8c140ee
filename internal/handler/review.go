package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
	"github.com/iliyamo/event-vendor-marketplace/internal/service"
)

// SubmitReview handles POST /v1/bookings/:id/review. The organizer of
// a completed booking submits the one-time review; sub-ratings left at
// zero default to the overall rating.
func (h *BookingHandler) SubmitReview(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Rating     int              `json:"rating"`
		Comment    string           `json:"comment"`
		SubRatings model.SubRatings `json:"sub_ratings"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rev, err := h.Svc.SubmitReview(c.Request().Context(), id, userID, service.ReviewInput{
		Rating:     body.Rating,
		Comment:    body.Comment,
		SubRatings: body.SubRatings,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": rev})
}

// GetReview handles GET /v1/bookings/:id/review. Participants read the
// full review aggregate, including the vendor response when present.
func (h *BookingHandler) GetReview(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.Svc.GetBooking(c.Request().Context(), id, userID); err != nil {
		return domainError(c, err)
	}
	rev, err := h.Svc.Review(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"review": rev})
}

// RespondToReview handles POST /v1/bookings/:id/review/response. The
// vendor attaches a single public response to the organizer's review.
func (h *BookingHandler) RespondToReview(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Response string `json:"response"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rev, err := h.Svc.RespondToReview(c.Request().Context(), id, userID, body.Response)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"review": rev})
}
