package services

import (
	"context"
	"errors"
	"testing"

	"notesapp/internal/common"
	"notesapp/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuotaService_Limit(t *testing.T) {
	svc := NewQuotaService(&MockNoteRepository{})
	free := &models.Tenant{Plan: models.PlanFree}
	pro := &models.Tenant{Plan: models.PlanPro}

	limit, unlimited := svc.Limit(free, models.RoleAdmin)
	assert.Equal(t, 2, limit)
	assert.False(t, unlimited)

	limit, unlimited = svc.Limit(free, models.RoleMember)
	assert.Equal(t, 1, limit)
	assert.False(t, unlimited)

	_, unlimited = svc.Limit(pro, models.RoleMember)
	assert.True(t, unlimited)
	_, unlimited = svc.Limit(pro, models.RoleAdmin)
	assert.True(t, unlimited)
}

func TestQuotaService_CanCreateNote(t *testing.T) {
	ctx := context.Background()
	tenant := &models.Tenant{ID: uuid.New(), Plan: models.PlanFree}
	member := &models.User{ID: uuid.New(), TenantID: tenant.ID, Role: models.RoleMember}
	admin := &models.User{ID: uuid.New(), TenantID: tenant.ID, Role: models.RoleAdmin}

	tests := []struct {
		name  string
		user  *models.User
		count int
		want  bool
	}{
		{name: "member first note", user: member, count: 0, want: true},
		{name: "member at limit", user: member, count: 1, want: false},
		{name: "admin second note", user: admin, count: 1, want: true},
		{name: "admin at limit", user: admin, count: 2, want: false},
		{name: "admin over limit", user: admin, count: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockNoteRepository{}
			repo.On("CountByOwner", ctx, tenant.ID, tt.user.ID).Return(tt.count, nil)
			svc := NewQuotaService(repo)

			ok, err := svc.CanCreateNote(ctx, tenant, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			repo.AssertExpectations(t)
		})
	}
}

func TestQuotaService_ProSkipsCount(t *testing.T) {
	repo := &MockNoteRepository{}
	svc := NewQuotaService(repo)
	tenant := &models.Tenant{ID: uuid.New(), Plan: models.PlanPro}

	ok, err := svc.CanCreateNote(context.Background(), tenant, &models.User{ID: uuid.New(), Role: models.RoleMember})
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertNotCalled(t, "CountByOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaService_CountFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockNoteRepository{}
	tenant := &models.Tenant{ID: uuid.New(), Plan: models.PlanFree}
	user := &models.User{ID: uuid.New(), Role: models.RoleMember}
	repo.On("CountByOwner", ctx, tenant.ID, user.ID).Return(0, errors.New("db down"))

	_, err := NewQuotaService(repo).CanCreateNote(ctx, tenant, user)
	assert.Equal(t, common.EInternal, common.ErrorCode(err))
}

func TestQuotaService_DenialMessage(t *testing.T) {
	svc := NewQuotaService(&MockNoteRepository{})
	assert.Equal(t, "Admin note limit reached (2 notes). Upgrade to PRO plan for unlimited notes.", svc.DenialMessage(models.RoleAdmin))
	assert.Equal(t, "User note limit reached (1 note). Contact your admin to upgrade to PRO plan.", svc.DenialMessage(models.RoleMember))
}
