package repositories

import (
	"context"
	"errors"

	"notesapp/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	// Create inserts a new user and returns ErrConflict if (email, tenant_id) is taken
	Create(ctx context.Context, user *models.User) error
	// Upsert inserts the user or overwrites password hash and role of the existing (email, tenant_id) row
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error)
	DeleteAll(ctx context.Context) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, tenant_id, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var role string
	if err := row.Scan(&user.ID, &user.TenantID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (email, tenant_id) DO NOTHING
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.TenantID, user.Email, user.PasswordHash, string(user.Role)).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConflict
	}
	return translate(err)
}

func (r *userRepo) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (email, tenant_id) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, updated_at = NOW()
		RETURNING ` + userColumns
	stored, err := scanUser(r.db.QueryRow(ctx, query, user.ID, user.TenantID, user.Email, user.PasswordHash, string(user.Role)))
	if err != nil {
		return nil, translate(err)
	}
	return stored, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND email = $2`
	user, err := scanUser(r.db.QueryRow(ctx, query, tenantID, email))
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *userRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users`)
	return err
}
