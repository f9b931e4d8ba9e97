package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notesapp/internal/metrics"
	"notesapp/internal/models"
	"notesapp/internal/repositories"

	"go.uber.org/zap"
)

// ArchiveService writes JSON snapshots of tenant notes to object storage.
type ArchiveService interface {
	SnapshotTenant(ctx context.Context, tenant *models.Tenant) (objectName string, err error)
	SnapshotAll(ctx context.Context) (int, error)
}

type archiveService struct {
	storage    ObjectStorage
	bucket     string
	tenantRepo repositories.TenantRepository
	noteRepo   repositories.NoteRepository
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

func NewArchiveService(storage ObjectStorage, bucket string, tenantRepo repositories.TenantRepository, noteRepo repositories.NoteRepository, m *metrics.Metrics, log *zap.Logger) ArchiveService {
	return &archiveService{
		storage:    storage,
		bucket:     bucket,
		tenantRepo: tenantRepo,
		noteRepo:   noteRepo,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

func archiveObjectName(slug string, takenAt time.Time) string {
	return fmt.Sprintf("%s/%s.json", slug, takenAt.UTC().Format("20060102T150405Z"))
}

func (s *archiveService) SnapshotTenant(ctx context.Context, tenant *models.Tenant) (string, error) {
	notes, err := s.noteRepo.ListByTenant(ctx, tenant.ID)
	if err != nil {
		return "", fmt.Errorf("list notes of %s: %w", tenant.Slug, err)
	}

	archive := models.NoteArchive{
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		Plan:       tenant.Plan,
		TakenAt:    s.now().UTC(),
		Notes:      notes,
	}
	body, err := json.Marshal(archive)
	if err != nil {
		return "", err
	}

	name := archiveObjectName(tenant.Slug, archive.TakenAt)
	if err := s.storage.PutObject(ctx, s.bucket, name, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return name, nil
}

// SnapshotAll archives every tenant and returns how many were written.
// It keeps going after a tenant fails and reports the joined errors.
func (s *archiveService) SnapshotAll(ctx context.Context) (int, error) {
	start := s.now()
	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		s.record("error")
		return 0, fmt.Errorf("ensure bucket %s: %w", s.bucket, err)
	}

	const pageSize = 100
	var (
		written int
		errs    []error
	)
	for offset := 0; ; offset += pageSize {
		tenants, err := s.tenantRepo.List(ctx, pageSize, offset)
		if err != nil {
			errs = append(errs, err)
			break
		}
		for _, tenant := range tenants {
			if _, err := s.SnapshotTenant(ctx, tenant); err != nil {
				s.log.Error("Tenant archive failed", zap.String("tenant_slug", tenant.Slug), zap.Error(err))
				errs = append(errs, err)
				continue
			}
			written++
		}
		if len(tenants) < pageSize {
			break
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		s.record("error")
	} else {
		s.record("ok")
	}
	s.log.Info("Note archive finished",
		zap.Int("tenants", written),
		zap.Int("failures", len(errs)),
		zap.Duration("took", s.now().Sub(start)))
	return written, err
}

func (s *archiveService) record(status string) {
	if s.metrics != nil {
		s.metrics.ArchiveRuns.WithLabelValues(status).Inc()
	}
}
