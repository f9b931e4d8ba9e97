package handlers

import (
	"net/http"

	"notesapp/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandlers serves the token-guarded maintenance endpoints
type AdminHandlers struct {
	authService   services.AuthService
	tenantService services.TenantService
	archive       services.ArchiveService
	log           *zap.Logger
}

// NewAdminHandlers wires the maintenance endpoints. archive may be nil when
// object storage is not configured.
func NewAdminHandlers(authService services.AuthService, tenantService services.TenantService, archive services.ArchiveService, log *zap.Logger) *AdminHandlers {
	return &AdminHandlers{
		authService:   authService,
		tenantService: tenantService,
		archive:       archive,
		log:           log,
	}
}

// ListTenantsRequest represents query parameters for listing tenants
type ListTenantsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Init wipes all data and seeds the fixture tenants and users
// @Summary Seed fixture data
// @Tags Admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} common.ErrorResponse
// @Router /init [post]
func (h *AdminHandlers) Init(c echo.Context) error {
	if err := h.authService.Seed(c.Request().Context()); err != nil {
		return err
	}
	h.log.Info("Fixture data seeded")
	return c.JSON(http.StatusOK, map[string]string{"message": "Test data initialized"})
}

// Reset wipes notes, users and tenants
// @Summary Reset data
// @Tags Admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} common.ErrorResponse
// @Router /reset [post]
func (h *AdminHandlers) Reset(c echo.Context) error {
	if err := h.authService.Reset(c.Request().Context()); err != nil {
		return err
	}
	h.log.Info("All data reset")
	return c.JSON(http.StatusOK, map[string]string{"message": "All data reset"})
}

// ListTenants pages through every tenant
// @Summary List tenants
// @Tags Admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /admin/tenants [get]
func (h *AdminHandlers) ListTenants(c echo.Context) error {
	var req ListTenantsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	tenants, err := h.tenantService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenants": tenants,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// Archive snapshots every tenant's notes immediately
// @Summary Archive notes now
// @Tags Admin
// @Produce json
// @Param X-Admin-Token header string true "Admin token"
// @Success 200 {object} map[string]int
// @Failure 503 {object} common.ErrorResponse
// @Router /admin/archive [post]
func (h *AdminHandlers) Archive(c echo.Context) error {
	if h.archive == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Archiving is not configured")
	}
	n, err := h.archive.SnapshotAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"archived_tenants": n})
}
