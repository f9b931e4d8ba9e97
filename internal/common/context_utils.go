package common

import (
	"context"
	"net/http"

	"notesapp/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity is the authenticated caller resolved for a single request
type Identity struct {
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	TenantID   uuid.UUID   `json:"tenant_id"`
	TenantSlug string      `json:"tenant_slug"`
	UserID     uuid.UUID   `json:"user_id"`
}

// IsAdmin reports whether the identity holds the ADMIN role
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// GetIdentityFromContext extracts the authenticated identity, if any
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(EInvalid, "Validation failed", details))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse(EUnauthorized, "Authentication required", nil))
}
