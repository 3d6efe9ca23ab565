package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ad_tracker/internal/config"
	"ad_tracker/internal/domain"
)

// PageLister returns the tracked pages.
type PageLister interface {
	List(ctx context.Context) ([]domain.Page, error)
}

// PageReconciler defines the per-page reconcile operation.
type PageReconciler interface {
	ReconcilePage(ctx context.Context, pageID string) (*domain.Summary, error)
}

type CycleObserver interface {
	RecordCycle(duration time.Duration, pages, failed int)
}

type Status struct {
	Running   bool       `json:"running"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// CycleResult describes one pass over all tracked pages.
type CycleResult struct {
	Pages     int
	Succeeded int
	Failed    int
	Aborted   bool
	Duration  time.Duration
}

// Scheduler runs a reconcile cycle over every tracked page at a fixed interval.
// Cycles never overlap; pages inside a cycle are reconciled one at a time.
type Scheduler struct {
	pages      PageLister
	reconciler PageReconciler
	observer   CycleObserver
	cfg        config.TrackerConfig
	logger     *slog.Logger

	mu        sync.Mutex
	running   bool
	gen       uint64
	nextRunAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	cycleMu sync.Mutex
}

func NewScheduler(pages PageLister, reconciler PageReconciler, observer CycleObserver, cfg config.TrackerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pages:      pages,
		reconciler: reconciler,
		observer:   observer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start launches the scheduling loop. The first cycle runs immediately.
// Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	s.gen++
	s.nextRunAt = time.Now()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.gen, s.done)

	s.logger.Info("scheduler started", "interval", s.cfg.Interval)
}

// Stop halts the loop and blocks until the page being reconciled, if any,
// has finished. Calling Stop on a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.running = false
	s.nextRunAt = time.Time{}
	s.mu.Unlock()

	<-done
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Running: s.running}
	if s.running && !s.nextRunAt.IsZero() {
		next := s.nextRunAt
		st.NextRunAt = &next
	}
	return st
}

// loop drives the cycles of one Start. gen identifies that Start, so a loop
// still finishing after Stop cannot touch the state of a newer one.
func (s *Scheduler) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	for {
		started := time.Now()
		if _, err := s.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("reconcile cycle failed", "error", err)
		}

		next := started.Add(s.cfg.Interval)
		s.setNextRun(gen, next)

		wait := time.Until(next)
		if wait < 0 {
			s.logger.Warn("reconcile cycle overran interval", "overrun", -wait)
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) setNextRun(gen uint64, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && s.gen == gen {
		s.nextRunAt = t
	}
}

// RunCycle reconciles every tracked page once. A failing page is logged and
// skipped, except for store failures, which end the cycle. Cancelling ctx
// stops the cycle before the next page; the page in progress runs to completion
// under its own timeout.
func (s *Scheduler) RunCycle(ctx context.Context) (*CycleResult, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	started := time.Now()
	result := &CycleResult{}
	defer func() {
		result.Duration = time.Since(started)
		if s.observer != nil {
			s.observer.RecordCycle(result.Duration, result.Pages, result.Failed)
		}
	}()

	pages, err := s.pages.List(ctx)
	if err != nil {
		result.Aborted = true
		return result, fmt.Errorf("list pages: %w", err)
	}

	s.logger.Info("reconcile cycle started", "pages", len(pages))

	for i, page := range pages {
		if i > 0 {
			if err := wait(ctx, s.cfg.PageDelay); err != nil {
				result.Aborted = true
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			result.Aborted = true
			return result, err
		}

		result.Pages++
		if err := s.reconcilePage(ctx, page.ID); err != nil {
			result.Failed++
			if errors.Is(err, domain.ErrStoreUnavailable) {
				s.logger.Error("store unavailable, aborting cycle", "page_id", page.ID, "error", err)
				result.Aborted = true
				return result, err
			}
			s.logger.Warn("page reconcile failed", "page_id", page.ID, "error", err)
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("reconcile cycle completed",
		"pages", result.Pages,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration", time.Since(started),
	)

	return result, nil
}

func (s *Scheduler) reconcilePage(ctx context.Context, pageID string) error {
	pageCtx := context.WithoutCancel(ctx)
	if s.cfg.PageTimeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(pageCtx, s.cfg.PageTimeout)
		defer cancel()
	}

	_, err := s.reconciler.ReconcilePage(pageCtx, pageID)
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
