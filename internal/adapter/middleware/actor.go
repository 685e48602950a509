package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/domain/audit"
)

// Actor puts the Ax-Actor-Id header on the request context so activity log
// entries name the staff member. Missing or malformed ids leave the context
// untouched and entries fall back to the system actor.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := strings.TrimSpace(c.Request().Header.Get(HeaderActorID)); validActor(id) {
				req := c.Request()
				c.SetRequest(req.WithContext(audit.WithActor(req.Context(), id)))
			}
			return next(c)
		}
	}
}
