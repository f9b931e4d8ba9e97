package services

import (
	"context"

	"notesapp/internal/common"
	"notesapp/internal/models"
	"notesapp/internal/repositories"
)

// Note limits on the FREE plan.
const (
	AdminNoteLimit  = 2
	MemberNoteLimit = 1
)

// QuotaService decides whether a user may create another note.
type QuotaService interface {
	// Limit returns the note limit for role on the tenant's plan; unlimited is true on PRO.
	Limit(tenant *models.Tenant, role models.Role) (limit int, unlimited bool)
	CanCreateNote(ctx context.Context, tenant *models.Tenant, user *models.User) (bool, error)
	DenialMessage(role models.Role) string
}

type quotaService struct {
	noteRepo repositories.NoteRepository
}

func NewQuotaService(noteRepo repositories.NoteRepository) QuotaService {
	return &quotaService{noteRepo: noteRepo}
}

func (s *quotaService) Limit(tenant *models.Tenant, role models.Role) (int, bool) {
	if tenant.Plan == models.PlanPro {
		return 0, true
	}
	if role == models.RoleAdmin {
		return AdminNoteLimit, false
	}
	return MemberNoteLimit, false
}

// CanCreateNote counts the user's notes on every call; there is no cached counter.
func (s *quotaService) CanCreateNote(ctx context.Context, tenant *models.Tenant, user *models.User) (bool, error) {
	limit, unlimited := s.Limit(tenant, user.Role)
	if unlimited {
		return true, nil
	}
	count, err := s.noteRepo.CountByOwner(ctx, tenant.ID, user.ID)
	if err != nil {
		return false, common.Internal("QuotaService.CanCreateNote", err)
	}
	return count < limit, nil
}

func (s *quotaService) DenialMessage(role models.Role) string {
	if role == models.RoleAdmin {
		return "Admin note limit reached (2 notes). Upgrade to PRO plan for unlimited notes."
	}
	return "User note limit reached (1 note). Contact your admin to upgrade to PRO plan."
}
