package middleware

import (
	"crypto/subtle"

	"notesapp/internal/common"

	"github.com/labstack/echo/v4"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminGuard protects the fixture and reset endpoints with a shared token.
// An empty expected token rejects everything.
func AdminGuard(expected string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			given := c.Request().Header.Get(AdminTokenHeader)
			if expected == "" || subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
				return common.Unauthorized("AdminGuard", "Invalid admin token")
			}
			return next(c)
		}
	}
}
