// Package router wires the HTTP routes. The health check is public;
// everything else requires a valid access token. Role checks are not
// done here: the engine derives organizer/vendor per booking, so the
// same routes serve both sides. Only the refund endpoint carries an
// extra admin guard.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-vendor-marketplace/internal/config"
	"github.com/iliyamo/event-vendor-marketplace/internal/handler"
	"github.com/iliyamo/event-vendor-marketplace/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBookings registers the booking engine's endpoints under /v1.
// rdb may be nil, in which case caching and rate limiting are skipped.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Reads. The cache middleware keys per user, so the catalog and
	// booking views never cross callers.
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g.GET("/bookings", h.ListBookings, cached)
	g.GET("/bookings/:id", h.GetBooking, cached)
	g.GET("/bookings/:id/balance", h.GetBalance, cached)
	g.GET("/bookings/:id/payments", h.ListPayments)
	g.GET("/bookings/:id/review", h.GetReview)

	// Lifecycle.
	g.POST("/bookings", h.CreateBooking)
	g.POST("/bookings/:id/confirm", h.ConfirmBooking)
	g.POST("/bookings/:id/start", h.StartBooking)
	g.POST("/bookings/:id/complete", h.CompleteBooking)
	g.POST("/bookings/:id/cancel", h.CancelBooking)
	g.PATCH("/bookings/:id/notes", h.UpdateBookingNotes)

	// Payments and reviews.
	g.POST("/bookings/:id/payments", h.RecordPayment)
	g.POST("/bookings/:id/review", h.SubmitReview)
	g.POST("/bookings/:id/review/response", h.RespondToReview)

	// Admin surface.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireAdmin())
	admin.POST("/bookings/:id/refund", h.RefundBooking)
}
