package handlers

import (
	"net/http"

	"notesapp/internal/common"
	"notesapp/internal/models"
	"notesapp/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService   services.AuthService
	tenantService services.TenantService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, tenantService services.TenantService) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		tenantService: tenantService,
	}
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	common.Identity
	TenantName string      `json:"tenant_name"`
	Plan       models.Plan `json:"plan"`
}

// Signup registers a MEMBER, creating the tenant on first use of its slug
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.SignupRequest true "Signup payload"
// @Success 201 {object} models.LoginResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/auth/signup [post]
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	resp, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles user login with email and password
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 401 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	resp, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the resolved identity with its tenant's plan
// @Summary Current identity
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /v1/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenant, err := h.tenantService.GetByID(ctx, id.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MeResponse{
		Identity:   id,
		TenantName: tenant.DisplayName,
		Plan:       tenant.Plan,
	})
}
