package services

import (
	"context"
	"errors"
	"strings"

	"notesapp/internal/caching"
	"notesapp/internal/common"
	"notesapp/internal/metrics"
	"notesapp/internal/models"
	"notesapp/internal/repositories"

	"go.uber.org/zap"
)

// SeedPassword is the password of every fixture account created by Seed.
const SeedPassword = "password"

var seedTenants = []struct {
	Slug        string
	DisplayName string
}{
	{Slug: "acme", DisplayName: "Acme Corp"},
	{Slug: "globex", DisplayName: "Globex Inc"},
}

// AuthService ties tokens, tenants and credentials together for the entry points.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	// Authenticate verifies token and resolves the identity it names.
	Authenticate(ctx context.Context, token string) (common.Identity, error)
	Seed(ctx context.Context) error
	Reset(ctx context.Context) error
}

// DataStores groups the repositories wiped by Reset.
type DataStores struct {
	Tenants repositories.TenantRepository
	Users   repositories.UserRepository
	Notes   repositories.NoteRepository
}

type authService struct {
	tokens  TokenService
	tenants TenantService
	users   UserService
	stores  DataStores
	cache   caching.TenantCache
	archive ArchiveService
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewAuthService wires the auth flows. archive may be nil when object storage is disabled.
func NewAuthService(tokens TokenService, tenants TenantService, users UserService, stores DataStores, cache caching.TenantCache, archive ArchiveService, m *metrics.Metrics, log *zap.Logger) AuthService {
	if cache == nil {
		cache = caching.NopTenantCache{}
	}
	return &authService{
		tokens:  tokens,
		tenants: tenants,
		users:   users,
		stores:  stores,
		cache:   cache,
		archive: archive,
		metrics: m,
		log:     log,
	}
}

func (s *authService) response(user *models.User, tenantSlug string) (*models.LoginResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, common.Internal("AuthService.issue", err)
	}
	return &models.LoginResponse{
		Token:      token,
		TokenType:  "Bearer",
		ExpiresAt:  expiresAt,
		Email:      user.Email,
		Role:       user.Role,
		TenantSlug: tenantSlug,
	}, nil
}

func (s *authService) authResult(result string) {
	if s.metrics != nil {
		s.metrics.AuthResults.WithLabelValues(result).Inc()
	}
}

// Signup registers a MEMBER, creating the tenant derived from the email domain if needed.
func (s *authService) Signup(ctx context.Context, req models.SignupRequest) (*models.LoginResponse, error) {
	const op = "AuthService.Signup"

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.TenantName) == "" {
		return nil, common.Invalid(op, "Email, password and tenantName are required")
	}
	slug, err := ResolveTenantSlug(email)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetOrCreate(ctx, slug, req.TenantName)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Register(ctx, email, tenant.ID, req.Password, models.RoleMember)
	if err != nil {
		return nil, err
	}
	return s.response(user, tenant.Slug)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	const op = "AuthService.Login"

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, common.Invalid(op, "Email and password are required")
	}
	slug, err := ResolveTenantSlug(email)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		s.authResult("login_failed")
		return nil, err
	}
	user, err := s.users.GetByEmailAndTenant(ctx, email, tenant.ID)
	if err != nil {
		s.authResult("login_failed")
		return nil, err
	}
	if !s.users.VerifyPassword(req.Password, user.PasswordHash) {
		s.authResult("login_failed")
		s.log.Info("Login rejected", zap.String("tenant_slug", slug), zap.String("user_id", user.ID.String()))
		return nil, common.Unauthorized(op, "Invalid credentials")
	}

	s.authResult("login_ok")
	return s.response(user, tenant.Slug)
}

func (s *authService) Authenticate(ctx context.Context, token string) (common.Identity, error) {
	const op = "AuthService.Authenticate"

	subject, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return common.Identity{}, common.NewError(common.EUnauthorized, op, "Token expired", err)
		}
		return common.Identity{}, common.NewError(common.EUnauthorized, op, "Invalid token", err)
	}

	slug, err := ResolveTenantSlug(subject)
	if err != nil {
		return common.Identity{}, common.NewError(common.EUnauthorized, op, "Invalid token subject", err)
	}
	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return common.Identity{}, err
	}
	user, err := s.users.GetByEmailAndTenant(ctx, subject, tenant.ID)
	if err != nil {
		return common.Identity{}, err
	}

	return common.Identity{
		Email:      user.Email,
		Role:       user.Role,
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		UserID:     user.ID,
	}, nil
}

// Reset archives every tenant when archiving is enabled, then wipes notes, users and tenants.
// A failed archive aborts the reset.
func (s *authService) Reset(ctx context.Context) error {
	const op = "AuthService.Reset"

	if s.archive != nil {
		if _, err := s.archive.SnapshotAll(ctx); err != nil {
			return common.Internal(op, err)
		}
	}
	if err := s.stores.Notes.DeleteAll(ctx); err != nil {
		return common.Internal(op, err)
	}
	if err := s.stores.Users.DeleteAll(ctx); err != nil {
		return common.Internal(op, err)
	}
	if err := s.stores.Tenants.DeleteAll(ctx); err != nil {
		return common.Internal(op, err)
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn("Tenant cache invalidation failed", zap.Error(err))
	}
	s.log.Warn("All tenant data wiped")
	return nil
}

// Seed resets the store and creates the fixture tenants with one ADMIN and one MEMBER each.
func (s *authService) Seed(ctx context.Context) error {
	if err := s.Reset(ctx); err != nil {
		return err
	}
	for _, t := range seedTenants {
		tenant, err := s.tenants.GetOrCreate(ctx, t.Slug, t.DisplayName)
		if err != nil {
			return err
		}
		accounts := []struct {
			email string
			role  models.Role
		}{
			{email: "admin@" + t.Slug + ".test", role: models.RoleAdmin},
			{email: "user@" + t.Slug + ".test", role: models.RoleMember},
		}
		for _, a := range accounts {
			if _, err := s.users.CreateOrUpdate(ctx, a.email, tenant.ID, SeedPassword, a.role); err != nil {
				return err
			}
		}
	}
	s.log.Info("Fixture data seeded", zap.Int("tenants", len(seedTenants)))
	return nil
}
