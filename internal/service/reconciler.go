package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ad_tracker/internal/config"
	"ad_tracker/internal/domain"
)

// untrackedTolerance is how close first_seen and last_seen must be for an ad
// to count as never status-checked.
const untrackedTolerance = time.Second

// Reconciler brings the stored ads of a page in line with the ads source.
type Reconciler struct {
	source     Source
	pages      PageStore
	ads        AdStore
	statusLog  StatusLogStore
	txManager  TransactionManager
	publisher  Publisher
	metrics    MetricsRecorder
	boundaries *BoundaryTracker
	logger     *slog.Logger
	config     config.TrackerConfig

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewReconciler(
	source Source,
	pages PageStore,
	ads AdStore,
	statusLog StatusLogStore,
	txManager TransactionManager,
	publisher Publisher,
	metrics MetricsRecorder,
	logger *slog.Logger,
	cfg config.TrackerConfig,
) *Reconciler {
	return &Reconciler{
		source:     source,
		pages:      pages,
		ads:        ads,
		statusLog:  statusLog,
		txManager:  txManager,
		publisher:  publisher,
		metrics:    metrics,
		boundaries: NewBoundaryTracker(ads),
		logger:     logger,
		config:     cfg,
		now:        func() time.Time { return time.Now().UTC() },
		sleep:      sleepContext,
	}
}

type candidate struct {
	record    domain.AdRecord
	startDate time.Time
}

// ReconcilePage runs one reconciliation cycle for a page. Source failures are
// reported as domain.ErrSourceUnavailable and persistence failures as
// domain.ErrStoreUnavailable; in both cases the cycle is abandoned and any
// per-ad work already applied stays in place.
func (r *Reconciler) ReconcilePage(ctx context.Context, pageID string) (*domain.Summary, error) {
	started := time.Now()
	logger := r.logger.With("page_id", pageID)

	summary, err := r.reconcile(ctx, pageID, logger)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordReconcileFailure(pageID, err)
		}
		return nil, err
	}

	summary.PageID = pageID
	summary.Duration = time.Since(started)
	if r.metrics != nil {
		r.metrics.RecordReconcile(summary)
	}

	logger.Info("reconcile completed",
		"changed", summary.Changed(),
		"new", summary.New,
		"still_active", summary.StillActive,
		"became_inactive", summary.BecameInactive,
		"reactivated", summary.Reactivated,
		"bootstrapped", summary.Bootstrapped,
		"skipped_checks", summary.SkippedChecks,
		"pages_fetched", summary.PagesFetched,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (r *Reconciler) reconcile(ctx context.Context, pageID string, logger *slog.Logger) (*domain.Summary, error) {
	known, err := r.ads.ListByPage(ctx, pageID, domain.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("load known ads: %w", err)
	}

	if len(known) == 0 {
		return r.bootstrap(ctx, pageID, logger)
	}

	if allUntracked(known) {
		return r.refreshUntracked(ctx, known, logger)
	}

	byID := make(map[string]*domain.Ad, len(known))
	for i := range known {
		byID[known[i].ID] = &known[i]
	}

	summary := &domain.Summary{}

	boundary := ResolveFrom(known)
	var candidates []candidate
	if boundary != nil {
		logger.Debug("pagination boundary",
			"boundary_ad_id", boundary.AdID,
			"boundary_start_date", boundary.StartDate,
		)
		candidates, summary.PagesFetched, err = r.discover(ctx, pageID, boundary, byID, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("no active boundary, skipping discovery")
	}

	snapshot, err := r.fetch(ctx, pageID, "")
	if err != nil {
		return nil, err
	}
	summary.PagesFetched++

	activeIDs := make(map[string]struct{}, len(snapshot.Results))
	for _, rec := range snapshot.Results {
		activeIDs[rec.AdID] = struct{}{}
	}
	logger.Debug("active snapshot", "active", len(activeIDs), "candidates", len(candidates))

	now := r.now()

	for _, c := range candidates {
		if _, ok := byID[c.record.AdID]; ok {
			continue
		}
		created, err := r.insert(ctx, pageID, c.record, c.startDate, now, logger)
		if err != nil {
			return nil, err
		}
		if created {
			summary.New++
		}
	}

	boundaryInvalidated := false
	for i := range known {
		ad := &known[i]
		_, nowActive := activeIDs[ad.ID]

		switch {
		case nowActive && ad.IsActive:
			err := r.ads.UpdateStatus(ctx, domain.Seen(ad, now))
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("ad removed from store during reconcile, skipping", "ad_id", ad.ID)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("refresh ad %s: %w", ad.ID, err)
			}
			summary.StillActive++

		case nowActive && !ad.IsActive:
			err := r.transition(ctx, ad, domain.Reactivate(ad, now), domain.StatusReactivated)
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("ad removed from store during reconcile, skipping", "ad_id", ad.ID)
				continue
			}
			if err != nil {
				return nil, err
			}
			logger.Info("ad reactivated", "ad_id", ad.ID)
			summary.Reactivated++
			summary.StillActive++

		case !nowActive && ad.IsActive:
			err := r.transition(ctx, ad, domain.Deactivate(ad, now), domain.StatusDeactivated)
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("ad removed from store during reconcile, skipping", "ad_id", ad.ID)
				continue
			}
			if err != nil {
				return nil, err
			}
			logger.Info("ad became inactive", "ad_id", ad.ID)
			summary.BecameInactive++
			if boundary != nil && ad.ID == boundary.AdID {
				boundaryInvalidated = true
			}
		}
	}

	if boundaryInvalidated {
		next, err := r.boundaries.Rederive(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("rederive boundary: %w", err)
		}
		if next == nil {
			logger.Warn("boundary ad became inactive and no active ads remain",
				"previous_boundary_ad_id", boundary.AdID,
			)
		} else {
			logger.Info("boundary ad became inactive",
				"previous_boundary_ad_id", boundary.AdID,
				"boundary_ad_id", next.AdID,
				"boundary_start_date", next.StartDate,
			)
		}
	}

	if err := r.pages.Upsert(ctx, pageID, pageName(snapshot.Results), now); err != nil {
		return nil, fmt.Errorf("touch page: %w", err)
	}

	return summary, nil
}

// bootstrap stores the newest ads of a page seen for the first time.
func (r *Reconciler) bootstrap(ctx context.Context, pageID string, logger *slog.Logger) (*domain.Summary, error) {
	logger.Info("no known ads, bootstrapping page", "initial_limit", r.config.InitialLimit)

	resp, err := r.fetch(ctx, pageID, "")
	if err != nil {
		return nil, err
	}

	records := resp.Results
	if len(records) > r.config.InitialLimit {
		records = records[:r.config.InitialLimit]
	}

	now := r.now()
	if err := r.pages.Upsert(ctx, pageID, pageName(records), now); err != nil {
		return nil, fmt.Errorf("register page: %w", err)
	}

	summary := &domain.Summary{Bootstrapped: true, PagesFetched: 1}
	if len(records) == 0 {
		logger.Warn("no ads found for page")
		return summary, nil
	}

	for _, rec := range records {
		created, err := r.insert(ctx, pageID, rec, r.startDate(rec, logger), now, logger)
		if err != nil {
			return nil, err
		}
		if created {
			summary.New++
		}
	}

	return summary, nil
}

// refreshUntracked handles the cycle right after bootstrap: the source has
// not been compared against the stored ads yet, so only last_seen moves.
func (r *Reconciler) refreshUntracked(ctx context.Context, known []domain.Ad, logger *slog.Logger) (*domain.Summary, error) {
	logger.Info("first cycle after bootstrap, skipping status checks", "ads", len(known))

	now := r.now()
	summary := &domain.Summary{SkippedChecks: true}
	for i := range known {
		ad := &known[i]
		err := r.ads.UpdateStatus(ctx, domain.Seen(ad, now))
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("ad removed from store during reconcile, skipping", "ad_id", ad.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("refresh ad %s: %w", ad.ID, err)
		}
		if ad.IsActive {
			summary.StillActive++
		}
	}
	return summary, nil
}

// discover walks the source newest-first until the boundary is reached, the
// source runs out of pages, or MaxPages pages were read, and returns the ads
// not yet stored.
func (r *Reconciler) discover(
	ctx context.Context,
	pageID string,
	boundary *domain.Boundary,
	known map[string]*domain.Ad,
	logger *slog.Logger,
) ([]candidate, int, error) {
	var (
		candidates []candidate
		seen       = make(map[string]struct{})
		cursor     string
		fetched    int
		prevOldest time.Time
	)

	for fetched < r.config.MaxPages {
		if fetched > 0 {
			if err := r.sleep(ctx, r.config.PaginationDelay); err != nil {
				return nil, fetched, err
			}
		}

		resp, err := r.fetch(ctx, pageID, cursor)
		if err != nil {
			return nil, fetched, err
		}
		fetched++

		if len(resp.Results) == 0 {
			logger.Debug("source returned an empty page", "page", fetched)
			break
		}

		var newest, oldest time.Time
		reached := false
		newInPage := 0
		for _, rec := range resp.Results {
			start := r.startDate(rec, logger)
			if newest.IsZero() || start.After(newest) {
				newest = start
			}
			if oldest.IsZero() || start.Before(oldest) {
				oldest = start
			}

			if boundary.Reached(rec.AdID, start) {
				logger.Debug("reached pagination boundary", "ad_id", rec.AdID, "exact", rec.AdID == boundary.AdID)
				reached = true
				break
			}
			if _, ok := known[rec.AdID]; ok {
				continue
			}
			if _, ok := seen[rec.AdID]; ok {
				continue
			}
			seen[rec.AdID] = struct{}{}
			candidates = append(candidates, candidate{record: rec, startDate: start})
			newInPage++
		}

		if !prevOldest.IsZero() && newest.After(prevOldest) {
			logger.Warn("source pages are not ordered newest first",
				"page", fetched,
				"page_newest", newest,
				"previous_page_oldest", prevOldest,
			)
			if r.metrics != nil {
				r.metrics.RecordOrderingViolation(pageID)
			}
		}
		prevOldest = oldest

		logger.Debug("discovery page", "page", fetched, "ads", len(resp.Results), "new", newInPage)

		if reached || resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	return candidates, fetched, nil
}

// insert stores a newly observed ad. An ad id that already exists, on this or
// any other page, is reported as not created.
func (r *Reconciler) insert(
	ctx context.Context,
	pageID string,
	rec domain.AdRecord,
	startDate time.Time,
	now time.Time,
	logger *slog.Logger,
) (bool, error) {
	if rec.AdID == "" {
		logger.Warn("skipping ad without id", "error", domain.ErrMalformedRecord)
		return false, nil
	}

	ad := domain.NewAd(pageID, rec, startDate, now)
	err := r.ads.Create(ctx, ad)
	if errors.Is(err, domain.ErrDuplicateKey) {
		logger.Debug("ad already known", "ad_id", ad.ID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create ad %s: %w", ad.ID, err)
	}

	logger.Info("new ad", "ad_id", ad.ID, "start_date", ad.StartDate)
	r.publish(ctx, domain.EventAdCreated, ad, now)
	return true, nil
}

// transition applies a status change and its log entry together. A row that
// no longer exists is reported as domain.ErrNotFound.
func (r *Reconciler) transition(ctx context.Context, ad *domain.Ad, update domain.StatusUpdate, status domain.AdStatus) error {
	reason := "missing from active snapshot"
	eventType := domain.EventAdDeactivated
	if status == domain.StatusReactivated {
		reason = "present in active snapshot"
		eventType = domain.EventAdReactivated
	}

	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := r.ads.UpdateStatus(txCtx, update); err != nil {
			return err
		}
		return r.statusLog.Append(txCtx, &domain.StatusLogEntry{
			AdID:      ad.ID,
			PageID:    ad.PageID,
			Status:    status,
			Timestamp: update.LastSeen,
			Reason:    reason,
		})
	})
	if err != nil {
		op := fmt.Sprintf("mark ad %s %s", ad.ID, status)
		if errors.Is(err, domain.ErrStoreUnavailable) ||
			errors.Is(err, domain.ErrNotFound) ||
			errors.Is(err, domain.ErrMalformedRecord) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return domain.NewStoreError(op, err)
	}

	ad.IsActive = update.IsActive
	ad.EndDate = update.EndDate
	ad.LastSeen = update.LastSeen
	r.publish(ctx, eventType, ad, update.LastSeen)
	return nil
}

func (r *Reconciler) fetch(ctx context.Context, pageID, cursor string) (*domain.AdsPage, error) {
	resp, err := r.source.FetchAdsPage(ctx, pageID, cursor)
	if err != nil {
		var srcErr *domain.SourceError
		if errors.As(err, &srcErr) {
			return nil, err
		}
		return nil, &domain.SourceError{PageID: pageID, Err: err}
	}
	if resp == nil {
		return &domain.AdsPage{}, nil
	}
	return resp, nil
}

func (r *Reconciler) publish(ctx context.Context, eventType domain.EventType, ad *domain.Ad, at time.Time) {
	if r.publisher == nil {
		return
	}

	event := &domain.AdEvent{Type: eventType, Ad: *ad, Timestamp: at}
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish ad event",
			"type", eventType,
			"ad_id", ad.ID,
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.RecordPublishFailure(eventType)
		}
	}
}

// startDate parses the reported start date, falling back to the current time.
func (r *Reconciler) startDate(rec domain.AdRecord, logger *slog.Logger) time.Time {
	t, err := rec.ParseStartDate()
	if err != nil {
		logger.Warn("unparseable ad start date, using current time",
			"ad_id", rec.AdID,
			"start_date", rec.StartDateString,
			"error", err,
		)
		return r.now()
	}
	return t
}

func allUntracked(ads []domain.Ad) bool {
	for i := range ads {
		if !ads[i].Untracked(untrackedTolerance) {
			return false
		}
	}
	return len(ads) > 0
}

func pageName(records []domain.AdRecord) string {
	for _, rec := range records {
		if rec.PageName != "" {
			return rec.PageName
		}
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
