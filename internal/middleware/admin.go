package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin aborts the request with 403 unless the JWT carried the
// admin claim. It assumes JWTAuth ran earlier and stored "is_admin" in
// the context. Used only for the refund endpoint, which is reserved
// for platform staff rather than booking participants.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, ok := c.Get("is_admin").(bool)
			if !ok || !admin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
