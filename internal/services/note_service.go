package services

import (
	"context"
	"errors"
	"strings"

	"notesapp/internal/common"
	"notesapp/internal/messaging"
	"notesapp/internal/metrics"
	"notesapp/internal/models"
	"notesapp/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLength   = 255
	maxContentLength = 10000
)

// CanAccess reports whether caller may perform action on note. Notes of
// another tenant are never accessible; within the tenant the owner and
// ADMINs are allowed.
func CanAccess(note *models.Note, caller common.Identity, action models.NoteAction) bool {
	if note == nil || note.TenantID != caller.TenantID {
		return false
	}
	switch action {
	case models.NoteActionRead, models.NoteActionUpdate, models.NoteActionDelete:
	default:
		return false
	}
	return note.UserID == caller.UserID || caller.IsAdmin()
}

type NoteService interface {
	Create(ctx context.Context, caller common.Identity, title, content string) (*models.Note, error)
	List(ctx context.Context, caller common.Identity) ([]*models.Note, error)
	Get(ctx context.Context, caller common.Identity, id uuid.UUID) (*models.Note, error)
	Update(ctx context.Context, caller common.Identity, id uuid.UUID, title, content string) (*models.Note, error)
	Delete(ctx context.Context, caller common.Identity, id uuid.UUID) error
}

type noteService struct {
	noteRepo    repositories.NoteRepository
	tenants     TenantService
	quota       QuotaService
	strictQuota bool
	metrics     *metrics.Metrics
	events      eventEmitter
	log         *zap.Logger
}

// NewNoteService builds the note service. With strictQuota the limit check
// and insert run in one locked transaction.
func NewNoteService(noteRepo repositories.NoteRepository, tenants TenantService, quota QuotaService, strictQuota bool, publisher messaging.Publisher, m *metrics.Metrics, log *zap.Logger) NoteService {
	return &noteService{
		noteRepo:    noteRepo,
		tenants:     tenants,
		quota:       quota,
		strictQuota: strictQuota,
		metrics:     m,
		events:      eventEmitter{publisher: publisher, metrics: m, log: log},
		log:         log,
	}
}

func validateNote(op, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return common.Invalid(op, "Title is required")
	}
	if err := common.ValidateLength(title, "title", maxTitleLength); err != nil {
		return common.Invalid(op, err.Error())
	}
	if err := common.ValidateLength(content, "content", maxContentLength); err != nil {
		return common.Invalid(op, err.Error())
	}
	return nil
}

func (s *noteService) Create(ctx context.Context, caller common.Identity, title, content string) (*models.Note, error) {
	const op = "NoteService.Create"

	if err := validateNote(op, title, content); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetByID(ctx, caller.TenantID)
	if err != nil {
		if common.ErrorCode(err) == common.ENotFound {
			return nil, common.Unauthorized(op, "User not found")
		}
		return nil, err
	}

	user := &models.User{ID: caller.UserID, TenantID: caller.TenantID, Email: caller.Email, Role: caller.Role}
	note := &models.Note{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		UserID:   user.ID,
		Title:    title,
		Content:  content,
	}

	limit, unlimited := s.quota.Limit(tenant, user.Role)
	switch {
	case unlimited:
		err = s.noteRepo.Create(ctx, note)
	case s.strictQuota:
		err = s.noteRepo.CreateWithinLimit(ctx, note, limit)
	default:
		allowed, checkErr := s.quota.CanCreateNote(ctx, tenant, user)
		if checkErr != nil {
			return nil, checkErr
		}
		if !allowed {
			err = repositories.ErrQuotaReached
		} else {
			err = s.noteRepo.Create(ctx, note)
		}
	}
	if err != nil {
		if errors.Is(err, repositories.ErrQuotaReached) {
			if s.metrics != nil {
				s.metrics.QuotaDenials.WithLabelValues(string(user.Role)).Inc()
			}
			return nil, common.QuotaExceeded(op, s.quota.DenialMessage(user.Role))
		}
		return nil, common.Internal(op, err)
	}

	if s.metrics != nil {
		s.metrics.NotesCreated.WithLabelValues(string(tenant.Plan)).Inc()
	}
	s.events.emit(ctx, messaging.Event{
		Type:       messaging.EventNoteCreated,
		TenantID:   note.TenantID,
		TenantSlug: tenant.Slug,
		UserID:     note.UserID,
		NoteID:     note.ID,
	})
	return note, nil
}

// List returns only the caller's own notes, whatever the role.
func (s *noteService) List(ctx context.Context, caller common.Identity) ([]*models.Note, error) {
	notes, err := s.noteRepo.ListByOwner(ctx, caller.TenantID, caller.UserID)
	if err != nil {
		return nil, common.Internal("NoteService.List", err)
	}
	return notes, nil
}

// authorize loads the note and applies CanAccess: 404 when the id is
// unknown, 403 when it belongs to someone the caller may not act for.
func (s *noteService) authorize(ctx context.Context, op string, caller common.Identity, id uuid.UUID, action models.NoteAction) (*models.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "Note not found")
		}
		return nil, common.Internal(op, err)
	}
	if !CanAccess(note, caller, action) {
		s.log.Debug("Note access denied",
			zap.String("note_id", id.String()),
			zap.String("user_id", caller.UserID.String()),
			zap.String("action", string(action)))
		return nil, common.Forbidden(op, "Access denied")
	}
	return note, nil
}

func (s *noteService) Get(ctx context.Context, caller common.Identity, id uuid.UUID) (*models.Note, error) {
	return s.authorize(ctx, "NoteService.Get", caller, id, models.NoteActionRead)
}

func (s *noteService) Update(ctx context.Context, caller common.Identity, id uuid.UUID, title, content string) (*models.Note, error) {
	const op = "NoteService.Update"

	if err := validateNote(op, title, content); err != nil {
		return nil, err
	}
	note, err := s.authorize(ctx, op, caller, id, models.NoteActionUpdate)
	if err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	if err := s.noteRepo.Update(ctx, note); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "Note not found")
		}
		return nil, common.Internal(op, err)
	}

	s.events.emit(ctx, messaging.Event{
		Type:     messaging.EventNoteUpdated,
		TenantID: note.TenantID,
		UserID:   caller.UserID,
		NoteID:   note.ID,
	})
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, caller common.Identity, id uuid.UUID) error {
	const op = "NoteService.Delete"

	note, err := s.authorize(ctx, op, caller, id, models.NoteActionDelete)
	if err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, note.TenantID, note.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NotFound(op, "Note not found")
		}
		return common.Internal(op, err)
	}

	s.events.emit(ctx, messaging.Event{
		Type:     messaging.EventNoteDeleted,
		TenantID: note.TenantID,
		UserID:   caller.UserID,
		NoteID:   note.ID,
	})
	return nil
}
