package services

import (
	"context"
	"errors"
	"strings"

	"notesapp/internal/caching"
	"notesapp/internal/common"
	"notesapp/internal/messaging"
	"notesapp/internal/metrics"
	"notesapp/internal/models"
	"notesapp/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolveTenantSlug derives the tenant slug from the first label of the
// email's domain: "admin@acme.test" yields "acme". The slug keeps the case
// it was written in, matching the case-sensitive email lookup at login.
func ResolveTenantSlug(email string) (string, error) {
	const op = "ResolveTenantSlug"

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", common.Invalid(op, "Invalid email format")
	}
	slug, _, _ := strings.Cut(domain, ".")
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", common.Invalid(op, "Invalid email format")
	}
	return slug, nil
}

type TenantService interface {
	GetOrCreate(ctx context.Context, slug, displayName string) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	Upgrade(ctx context.Context, slug string, caller common.Identity) (*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	cache      caching.TenantCache
	metrics    *metrics.Metrics
	events     eventEmitter
	log        *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, cache caching.TenantCache, publisher messaging.Publisher, m *metrics.Metrics, log *zap.Logger) TenantService {
	if cache == nil {
		cache = caching.NopTenantCache{}
	}
	return &tenantService{
		tenantRepo: tenantRepo,
		cache:      cache,
		metrics:    m,
		events:     eventEmitter{publisher: publisher, metrics: m, log: log},
		log:        log,
	}
}

// GetOrCreate returns the tenant for slug, creating it on the FREE plan
// when absent. An existing tenant is returned unchanged.
func (s *tenantService) GetOrCreate(ctx context.Context, slug, displayName string) (*models.Tenant, error) {
	const op = "TenantService.GetOrCreate"

	if slug == "" {
		return nil, common.Invalid(op, "Tenant slug is required")
	}
	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName = slug
	}

	tenant, created, err := s.tenantRepo.CreateIfAbsent(ctx, &models.Tenant{
		ID:          uuid.New(),
		Slug:        slug,
		DisplayName: displayName,
		Plan:        models.PlanFree,
	})
	if err != nil {
		return nil, common.Internal(op, err)
	}

	if created {
		s.log.Info("Tenant created", zap.String("tenant_slug", slug), zap.String("tenant_id", tenant.ID.String()))
		s.events.emit(ctx, messaging.Event{
			Type:       messaging.EventTenantCreated,
			TenantID:   tenant.ID,
			TenantSlug: tenant.Slug,
			Attributes: map[string]string{"plan": string(tenant.Plan)},
		})
	}
	return tenant, nil
}

// GetBySlug consults the cache before the store. Cache failures degrade to a store read.
func (s *tenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	const op = "TenantService.GetBySlug"

	if cached, err := s.cache.Get(ctx, slug); err != nil {
		s.log.Warn("Tenant cache read failed", zap.String("tenant_slug", slug), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "Tenant not found")
		}
		return nil, common.Internal(op, err)
	}

	if err := s.cache.Set(ctx, tenant); err != nil {
		s.log.Warn("Tenant cache write failed", zap.String("tenant_slug", slug), zap.Error(err))
	}
	return tenant, nil
}

// GetByID always reads the store so plan checks see the latest value.
func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	const op = "TenantService.GetByID"

	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "Tenant not found")
		}
		return nil, common.Internal(op, err)
	}
	return tenant, nil
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	tenants, err := s.tenantRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, common.Internal("TenantService.List", err)
	}
	return tenants, nil
}

// Upgrade moves the tenant to PRO. Only an ADMIN of that tenant may do so,
// and upgrading a PRO tenant is a no-op.
func (s *tenantService) Upgrade(ctx context.Context, slug string, caller common.Identity) (*models.Tenant, error) {
	const op = "TenantService.Upgrade"

	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "Tenant not found")
		}
		return nil, common.Internal(op, err)
	}

	if caller.TenantID != tenant.ID || !caller.IsAdmin() {
		return nil, common.Forbidden(op, "Only admins of this tenant can upgrade the plan")
	}

	if tenant.Plan == models.PlanPro {
		return tenant, nil
	}

	if err := s.tenantRepo.UpdatePlan(ctx, tenant.ID, models.PlanPro); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "Tenant not found")
		}
		return nil, common.Internal(op, err)
	}
	tenant.Plan = models.PlanPro

	if err := s.cache.Delete(ctx, tenant.Slug); err != nil {
		s.log.Warn("Tenant cache invalidation failed", zap.String("tenant_slug", tenant.Slug), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.TenantUpgrades.Inc()
	}
	s.log.Info("Tenant upgraded", zap.String("tenant_slug", tenant.Slug), zap.String("user_id", caller.UserID.String()))
	s.events.emit(ctx, messaging.Event{
		Type:       messaging.EventTenantUpgraded,
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		UserID:     caller.UserID,
		Attributes: map[string]string{"plan": string(models.PlanPro)},
	})
	return tenant, nil
}
