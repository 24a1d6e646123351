package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"livingdocs/internal/domain/repositories"
	"livingdocs/internal/metrics"
	"livingdocs/internal/storage"
)

// Sweeper states, observable for diagnostics
const (
	SweepIdle     = "idle"
	SweepScanning = "scanning"
	SweepDeleting = "deleting"
)

// Sweeper prunes non-current versions older than the retention window.
// The expiry query excludes current versions at the SQL level, so the
// sweeper cannot delete a version the current pointer references no
// matter how stale its timestamp is.
type Sweeper struct {
	versionRepo repositories.VersionRepository
	store       *storage.Store
	logger      *slog.Logger

	retention    time.Duration
	interval     time.Duration
	startupDelay time.Duration

	state  atomic.Value // one of the Sweep* states
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewSweeper creates a retention sweeper. retentionDays <= 0 disables
// pruning entirely: Start becomes a no-op.
func NewSweeper(
	versionRepo repositories.VersionRepository,
	store *storage.Store,
	logger *slog.Logger,
	retentionDays int,
	interval, startupDelay time.Duration,
) *Sweeper {
	s := &Sweeper{
		versionRepo:  versionRepo,
		store:        store,
		logger:       logger,
		retention:    time.Duration(retentionDays) * 24 * time.Hour,
		interval:     interval,
		startupDelay: startupDelay,
		done:         make(chan struct{}),
	}
	s.state.Store(SweepIdle)
	return s
}

// State returns the sweeper's current phase
func (s *Sweeper) State() string {
	return s.state.Load().(string)
}

// Start launches the background loop: one run after the startup delay,
// then one per interval. The delay keeps sweep I/O out of the boot path.
func (s *Sweeper) Start(ctx context.Context) {
	if s.retention <= 0 {
		s.logger.Info("retention sweeping disabled")
		close(s.done)
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)

	s.logger.Info("retention sweeper started",
		"retention", s.retention.String(),
		"interval", s.interval.String(),
		"startup_delay", s.startupDelay.String(),
	)
}

// Stop cancels the loop and waits for an in-flight sweep to finish
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	select {
	case <-time.After(s.startupDelay):
	case <-ctx.Done():
		return
	}
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one pruning cycle. Each expired version is handled in
// isolation: the blob goes first, then the row, and a failure on one item
// never aborts the rest of the batch. A blob already missing from disk is
// treated as deleted.
func (s *Sweeper) Sweep(ctx context.Context) {
	s.state.Store(SweepScanning)
	defer s.state.Store(SweepIdle)

	cutoff := time.Now().Add(-s.retention)
	expired, err := s.versionRepo.ListExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention scan failed", "error", err)
		return
	}
	if len(expired) == 0 {
		metrics.SweepRunsTotal.Inc()
		return
	}

	s.state.Store(SweepDeleting)
	var deleted, failed int
	for _, v := range expired {
		if ctx.Err() != nil {
			break
		}

		if err := s.store.Delete(v.FilePath); err != nil {
			s.logger.Warn("expired blob not deleted",
				"version_id", v.ID,
				"path", v.FilePath,
				"error", err,
			)
			failed++
			metrics.SweepErrorsTotal.Inc()
			continue
		}
		if err := s.versionRepo.Delete(ctx, v.ID); err != nil {
			s.logger.Warn("expired version row not deleted",
				"version_id", v.ID,
				"error", err,
			)
			failed++
			metrics.SweepErrorsTotal.Inc()
			continue
		}
		deleted++
		metrics.SweepDeletedTotal.Inc()
	}

	metrics.SweepRunsTotal.Inc()
	s.logger.Info("retention sweep finished",
		"expired", len(expired),
		"deleted", deleted,
		"failed", failed,
	)
}
