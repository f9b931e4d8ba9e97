package handlers

import (
	"context"
	"io"

	"notesapp/internal/common"
	"notesapp/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (common.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(common.Identity), args.Error(1)
}

func (m *MockAuthService) Seed(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthService) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) GetOrCreate(ctx context.Context, slug, displayName string) (*models.Tenant, error) {
	args := m.Called(ctx, slug, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Upgrade(ctx context.Context, slug string, caller common.Identity) (*models.Tenant, error) {
	args := m.Called(ctx, slug, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, caller common.Identity, title, content string) (*models.Note, error) {
	args := m.Called(ctx, caller, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteService) List(ctx context.Context, caller common.Identity) ([]*models.Note, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockNoteService) Get(ctx context.Context, caller common.Identity, id uuid.UUID) (*models.Note, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteService) Update(ctx context.Context, caller common.Identity, id uuid.UUID, title, content string) (*models.Note, error) {
	args := m.Called(ctx, caller, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, caller common.Identity, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) SnapshotTenant(ctx context.Context, tenant *models.Tenant) (string, error) {
	args := m.Called(ctx, tenant)
	return args.String(0), args.Error(1)
}

func (m *MockArchiveService) SnapshotAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubCache struct {
	pingErr error
}

func (stubCache) Get(context.Context, string) (*models.Tenant, error) { return nil, nil }
func (stubCache) Set(context.Context, *models.Tenant) error           { return nil }
func (stubCache) Delete(context.Context, string) error                { return nil }
func (stubCache) InvalidateAll(context.Context) error                 { return nil }
func (s stubCache) Ping(context.Context) error                        { return s.pingErr }

type stubStorage struct{ err error }

func (s stubStorage) PutObject(context.Context, string, string, io.Reader, int64, string) error {
	return s.err
}
func (s stubStorage) EnsureBucketExists(context.Context, string) error { return s.err }
func (s stubStorage) BucketExists(context.Context, string) (bool, error) {
	return s.err == nil, s.err
}
