package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"notesapp/internal/common"
	"notesapp/internal/messaging"
	"notesapp/internal/models"
	"notesapp/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) CreateIfAbsent(ctx context.Context, tenant *models.Tenant) (*models.Tenant, bool, error) {
	args := m.Called(ctx, tenant)
	if rf, ok := args.Get(0).(func(context.Context, *models.Tenant) *models.Tenant); ok {
		return rf(ctx, tenant), args.Bool(1), args.Error(2)
	}
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Tenant), args.Bool(1), args.Error(2)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) UpdatePlan(ctx context.Context, id uuid.UUID, plan models.Plan) error {
	args := m.Called(ctx, id, plan)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) CreateWithinLimit(ctx context.Context, note *models.Note, limit int) error {
	args := m.Called(ctx, note, limit)
	return args.Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByOwner(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Note, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockNoteRepository) CountByOwner(ctx context.Context, tenantID, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockNoteRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTenantCache struct {
	mock.Mock
}

func (m *MockTenantCache) Get(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantCache) Set(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *MockTenantCache) Delete(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *MockTenantCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTenantCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	body, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucketName, objectName, body, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	return m.Called(ctx, bucketName).Error(0)
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memNoteRepo is an in-memory NoteRepository for quota scenarios.
type memNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*models.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: make(map[uuid.UUID]*models.Note)}
}

func (r *memNoteRepo) insert(note *models.Note) {
	now := time.Now()
	note.CreatedAt, note.UpdatedAt = now, now
	stored := *note
	r.notes[note.ID] = &stored
}

func (r *memNoteRepo) countLocked(tenantID, userID uuid.UUID) int {
	n := 0
	for _, note := range r.notes {
		if note.TenantID == tenantID && note.UserID == userID {
			n++
		}
	}
	return n
}

func (r *memNoteRepo) Create(_ context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(note)
	return nil
}

func (r *memNoteRepo) CreateWithinLimit(_ context.Context, note *models.Note, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countLocked(note.TenantID, note.UserID) >= limit {
		return repositories.ErrQuotaReached
	}
	r.insert(note)
	return nil
}

func (r *memNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.notes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *note
	return &out, nil
}

func (r *memNoteRepo) filter(keep func(*models.Note) bool) []*models.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Note{}
	for _, note := range r.notes {
		if keep(note) {
			n := *note
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *memNoteRepo) ListByOwner(_ context.Context, tenantID, userID uuid.UUID) ([]*models.Note, error) {
	return r.filter(func(n *models.Note) bool { return n.TenantID == tenantID && n.UserID == userID }), nil
}

func (r *memNoteRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	return r.filter(func(n *models.Note) bool { return n.TenantID == tenantID }), nil
}

func (r *memNoteRepo) CountByOwner(_ context.Context, tenantID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked(tenantID, userID), nil
}

func (r *memNoteRepo) Update(_ context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.notes[note.ID]
	if !ok || stored.TenantID != note.TenantID {
		return repositories.ErrNotFound
	}
	stored.Title, stored.Content, stored.UpdatedAt = note.Title, note.Content, time.Now()
	note.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memNoteRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.notes[id]
	if !ok || stored.TenantID != tenantID {
		return repositories.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *memNoteRepo) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = make(map[uuid.UUID]*models.Note)
	return nil
}

// staticTenants is a TenantService serving a fixed set of tenants by id.
type staticTenants struct {
	TenantService
	byID map[uuid.UUID]*models.Tenant
}

func (s staticTenants) GetByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	if t, ok := s.byID[id]; ok {
		out := *t
		return &out, nil
	}
	return nil, common.NotFound("staticTenants.GetByID", "Tenant not found")
}
