package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pvolkov/news-ingest/app/pipeline"
	"github.com/pvolkov/news-ingest/app/source"
)

// Runner is the pipeline surface the scheduler drives.
type Runner interface {
	Run(ctx context.Context, src *source.Config) (*pipeline.Outcome, error)
}

// RunStatus is the recorded result of the most recent run for one source.
type RunStatus struct {
	Source    string            `json:"source"`
	StartedAt time.Time         `json:"started_at"`
	Duration  string            `json:"duration"`
	Outcome   *pipeline.Outcome `json:"outcome,omitempty"`
	Status    string            `json:"status"`
	Reason    string            `json:"reason,omitempty"`
}

// Scheduler triggers one sequential ingestion pass per interval. There is no
// mid-run abort and no whole-run retry; a failed run is simply reported and
// picked up again on the next tick.
type Scheduler struct {
	runner   Runner
	sources  *source.Cache
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu       sync.RWMutex
	lastRuns map[string]RunStatus
}

func NewScheduler(runner Runner, sources *source.Cache, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:   runner,
		sources:  sources,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		lastRuns: make(map[string]RunStatus),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(s.ctx)

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(s.ctx)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// RunOnce executes one pass over every enabled source, sequentially, in
// stable source order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, src := range s.sources.GetSources() {
		if !src.IsEnabled() {
			slog.Debug("Source disabled, skipping", "source", src.Name)
			continue
		}

		startedAt := time.Now()
		outcome, err := s.runner.Run(ctx, src)
		status := RunStatus{
			Source:    src.Name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt).String(),
		}
		if err != nil {
			status.Status = "error"
			var runErr *pipeline.RunError
			if errors.As(err, &runErr) {
				status.Reason = string(runErr.Reason)
			}
			slog.Error("Ingestion run failed", "source", src.Name, "reason", status.Reason, "error", err)
		} else {
			status.Status = "ok"
			status.Outcome = outcome
		}

		s.mu.Lock()
		s.lastRuns[src.Name] = status
		s.mu.Unlock()
	}
}

// LastRuns returns a copy of the most recent per-source run statuses.
func (s *Scheduler) LastRuns() map[string]RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make(map[string]RunStatus, len(s.lastRuns))
	for name, status := range s.lastRuns {
		runs[name] = status
	}
	return runs
}
