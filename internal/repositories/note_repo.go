package repositories

import (
	"context"

	"notesapp/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	// CreateWithinLimit counts the owner's notes and inserts under a per-owner
	// advisory lock, returning ErrQuotaReached once the count reaches limit
	CreateWithinLimit(ctx context.Context, note *models.Note, limit int) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	ListByOwner(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Note, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error)
	CountByOwner(ctx context.Context, tenantID, userID uuid.UUID) (int, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type noteRepo struct {
	db Database
}

func NewNoteRepo(db Database) NoteRepository {
	return &noteRepo{db: db}
}

const noteColumns = `id, tenant_id, user_id, title, content, created_at, updated_at`

const insertNoteQuery = `
	INSERT INTO notes (id, tenant_id, user_id, title, content, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	RETURNING created_at, updated_at
`

const countNotesQuery = `SELECT COUNT(*) FROM notes WHERE tenant_id = $1 AND user_id = $2`

func scanNote(row pgx.Row) (*models.Note, error) {
	note := &models.Note{}
	if err := row.Scan(&note.ID, &note.TenantID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepo) Create(ctx context.Context, note *models.Note) error {
	err := r.db.QueryRow(ctx, insertNoteQuery, note.ID, note.TenantID, note.UserID, note.Title, note.Content).
		Scan(&note.CreatedAt, &note.UpdatedAt)
	return translate(err)
}

func (r *noteRepo) CreateWithinLimit(ctx context.Context, note *models.Note, limit int) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	lockKey := note.TenantID.String() + ":" + note.UserID.String()
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return err
	}

	var count int
	if err = tx.QueryRow(ctx, countNotesQuery, note.TenantID, note.UserID).Scan(&count); err != nil {
		return err
	}
	if count >= limit {
		err = ErrQuotaReached
		return err
	}

	if err = tx.QueryRow(ctx, insertNoteQuery, note.ID, note.TenantID, note.UserID, note.Title, note.Content).
		Scan(&note.CreatedAt, &note.UpdatedAt); err != nil {
		err = translate(err)
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// GetByID is not tenant-scoped; callers enforce tenant isolation
func (r *noteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	note, err := scanNote(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return note, nil
}

func (r *noteRepo) ListByOwner(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, tenantID, userID)
}

func (r *noteRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, tenantID)
}

func (r *noteRepo) list(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *noteRepo) CountByOwner(ctx context.Context, tenantID, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, countNotesQuery, tenantID, userID).Scan(&count)
	return count, err
}

// Update rewrites title and content only; tenant_id and user_id are fixed at creation
func (r *noteRepo) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = $1, content = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, note.Title, note.Content, note.TenantID, note.ID).Scan(&note.UpdatedAt)
	return translate(err)
}

func (r *noteRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *noteRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notes`)
	return err
}
