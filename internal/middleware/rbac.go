package middleware

import (
	"notesapp/internal/common"
	"notesapp/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole allows the request only when the caller holds one of roles.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := common.GetIdentityFromContext(c.Request().Context())
			if !ok {
				return common.Unauthorized("RequireRole", "Authentication required")
			}
			for _, role := range roles {
				if id.Role == role {
					return next(c)
				}
			}
			return common.Forbidden("RequireRole", "Insufficient permissions")
		}
	}
}
