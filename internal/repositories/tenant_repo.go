package repositories

import (
	"context"
	"errors"
	"fmt"

	"notesapp/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	// CreateIfAbsent inserts tenant unless its slug is taken. created is false when
	// another tenant already owns the slug, in which case the stored row is returned.
	CreateIfAbsent(ctx context.Context, tenant *models.Tenant) (stored *models.Tenant, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, plan models.Plan) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	DeleteAll(ctx context.Context) error
}

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, slug, display_name, plan, created_at, updated_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	var plan string
	if err := row.Scan(&tenant.ID, &tenant.Slug, &tenant.DisplayName, &plan, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
		return nil, err
	}
	tenant.Plan = models.Plan(plan)
	if !tenant.Plan.Valid() {
		return nil, fmt.Errorf("tenant %s has unknown plan %q", tenant.Slug, plan)
	}
	return tenant, nil
}

func (r *tenantRepo) CreateIfAbsent(ctx context.Context, tenant *models.Tenant) (*models.Tenant, bool, error) {
	query := `
		INSERT INTO tenants (id, slug, display_name, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (slug) DO NOTHING
		RETURNING ` + tenantColumns
	stored, err := scanTenant(r.db.QueryRow(ctx, query, tenant.ID, tenant.Slug, tenant.DisplayName, string(tenant.Plan)))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, translate(err)
	}

	// Lost the race or the slug already existed
	existing, err := r.GetBySlug(ctx, tenant.Slug)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return tenant, nil
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1`
	tenant, err := scanTenant(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, translate(err)
	}
	return tenant, nil
}

func (r *tenantRepo) UpdatePlan(ctx context.Context, id uuid.UUID, plan models.Plan) error {
	query := `UPDATE tenants SET plan = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, string(plan), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

// DeleteAll removes every tenant. Users and notes go with them through ON DELETE CASCADE.
func (r *tenantRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tenants`)
	return err
}
