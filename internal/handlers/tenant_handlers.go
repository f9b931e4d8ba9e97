package handlers

import (
	"net/http"
	"strings"

	"notesapp/internal/common"
	"notesapp/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles tenant-related HTTP requests
type TenantHandlers struct {
	tenantService services.TenantService
}

// NewTenantHandlers creates a new tenant handlers instance
func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

func slugParam(c echo.Context) string {
	return strings.TrimSpace(c.Param("slug"))
}

// GetTenant returns tenant details to members of that tenant
// @Summary Get tenant
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Tenant slug"
// @Success 200 {object} models.Tenant
// @Failure 401 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Router /v1/tenants/{slug} [get]
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	slug := slugParam(c)
	if slug != caller.TenantSlug {
		return common.Forbidden("TenantHandlers.GetTenant", "Access denied")
	}

	tenant, err := h.tenantService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// UpgradeTenant moves the tenant to the PRO plan
// @Summary Upgrade tenant
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Tenant slug"
// @Success 200 {object} models.Tenant
// @Failure 401 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/tenants/{slug}/upgrade [post]
func (h *TenantHandlers) UpgradeTenant(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenant, err := h.tenantService.Upgrade(ctx, slugParam(c), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Tenant upgraded to PRO",
		"tenant":  tenant,
	})
}
