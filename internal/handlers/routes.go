package handlers

import (
	"notesapp/internal/middleware"
	"notesapp/internal/models"

	"github.com/labstack/echo/v4"
)

// Router groups every handler served by the API
type Router struct {
	Auth    *AuthHandlers
	Notes   *NoteHandlers
	Tenants *TenantHandlers
	Health  *HealthHandlers
	Admin   *AdminHandlers // nil keeps /init, /reset and /admin unregistered

	AdminToken string
	// V1 is applied to every /v1 route.
	V1 []echo.MiddlewareFunc
	// Strict rejects unauthenticated calls to protected routes before the handler runs.
	Strict bool
}

// Register mounts all routes on e.
func (r *Router) Register(e *echo.Echo) {
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)

	// unversioned entry point kept for existing clients
	e.POST("/login", r.Auth.Login)

	if r.Admin != nil {
		guard := middleware.AdminGuard(r.AdminToken)
		e.POST("/init", r.Admin.Init, guard)
		e.POST("/reset", r.Admin.Reset, guard)

		admin := e.Group("/admin", guard)
		admin.GET("/tenants", r.Admin.ListTenants)
		admin.POST("/archive", r.Admin.Archive)
	}

	v1 := e.Group("/v1", r.V1...)

	auth := v1.Group("/auth")
	auth.POST("/signup", r.Auth.Signup)
	auth.POST("/login", r.Auth.Login)

	protected := v1.Group("")
	if r.Strict {
		protected.Use(middleware.RequireIdentity())
	}

	protected.GET("/me", r.Auth.Me)

	notes := protected.Group("/notes")
	notes.POST("", r.Notes.CreateNote)
	notes.GET("", r.Notes.ListNotes)
	notes.GET("/:id", r.Notes.GetNote)
	notes.PUT("/:id", r.Notes.UpdateNote)
	notes.DELETE("/:id", r.Notes.DeleteNote)

	tenants := protected.Group("/tenants")
	tenants.GET("/:slug", r.Tenants.GetTenant)
	tenants.POST("/:slug/upgrade", r.Tenants.UpgradeTenant, middleware.RequireRole(models.RoleAdmin))
}
