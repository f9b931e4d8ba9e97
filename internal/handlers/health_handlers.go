package handlers

import (
	"context"
	"net/http"
	"time"

	"notesapp/internal/caching"
	"notesapp/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db      Pinger
	cache   caching.TenantCache
	storage services.ObjectStorage
	bucket  string
	started time.Time
	log     *zap.Logger
}

// NewHealthHandlers creates a new health handlers instance. storage may be
// nil when archiving is disabled.
func NewHealthHandlers(db Pinger, cache caching.TenantCache, storage services.ObjectStorage, bucket string, log *zap.Logger) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		storage: storage,
		bucket:  bucket,
		started: time.Now(),
		log:     log,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
}

// LivenessCheck reports that the process is serving
// @Summary Liveness
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

// ReadinessCheck determines if the application is ready to serve traffic
// @Summary Readiness
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	// database is critical, cache and storage only degrade
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("Database readiness check failed", zap.Error(err))
		health.Services["database"] = "unhealthy"
		health.Status = "not_ready"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.cache.Ping(ctx); err != nil {
		h.log.Warn("Cache readiness check failed", zap.Error(err))
		health.Services["cache"] = "unhealthy"
		if health.Status == "ready" {
			health.Status = "degraded"
		}
	} else {
		health.Services["cache"] = "healthy"
	}

	if h.storage != nil {
		if _, err := h.storage.BucketExists(ctx, h.bucket); err != nil {
			h.log.Warn("Storage readiness check failed", zap.Error(err))
			health.Services["storage"] = "unhealthy"
			if health.Status == "ready" {
				health.Status = "degraded"
			}
		} else {
			health.Services["storage"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}
