package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const ArchiveJobName = "notes-archive"

// Archiver snapshots every tenant's notes
type Archiver interface {
	SnapshotAll(ctx context.Context) (int, error)
}

// JobScheduler runs the periodic background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	archiver  Archiver
	interval  time.Duration
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

// NewJobScheduler creates a scheduler running the note archive every
// interval. The first run happens one interval after Start.
func NewJobScheduler(archiver Archiver, interval time.Duration, log *zap.Logger) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("archive interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		archiver:  archiver,
		interval:  interval,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler", zap.Strings("jobs", js.JobNames()))
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return
func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	archiveJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.archiveNotes, js.ctx),
		gocron.WithName(ArchiveJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create archive job: %w", err)
	}

	js.mu.Lock()
	js.jobs[ArchiveJobName] = archiveJob
	js.mu.Unlock()
	return nil
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (js *JobScheduler) archiveNotes(ctx context.Context) error {
	start := time.Now()
	n, err := js.archiver.SnapshotAll(ctx)
	if err != nil {
		js.log.Error("Scheduled note archive failed", zap.Int("tenants", n), zap.Error(err))
		return err
	}
	js.log.Info("Scheduled note archive completed", zap.Int("tenants", n), zap.Duration("took", time.Since(start)))
	return nil
}
