// Package server provides the operational HTTP endpoints of the tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ad_tracker/internal/domain"
	"ad_tracker/internal/scheduler"
)

type SchedulerControl interface {
	Start()
	Stop()
	Status() scheduler.Status
}

type PageReconciler interface {
	ReconcilePage(ctx context.Context, pageID string) (*domain.Summary, error)
}

type HistoryStore interface {
	ListByAd(ctx context.Context, adID string) ([]domain.StatusLogEntry, error)
}

type StatsReader interface {
	Pages(ctx context.Context) ([]domain.PageStats, error)
	Page(ctx context.Context, pageID string) (*domain.PageStats, error)
	Ads(ctx context.Context, pageID string) ([]domain.Ad, error)
	Ad(ctx context.Context, adID string) (*domain.Ad, error)
}

type Server struct {
	scheduler  SchedulerControl
	reconciler PageReconciler
	stats      StatsReader
	history    HistoryStore
	metrics    http.Handler
	logger     *slog.Logger
	router     chi.Router
}

// New builds the ops router. metrics may be nil, in which case /metrics is not mounted.
func New(
	sched SchedulerControl,
	reconciler PageReconciler,
	stats StatsReader,
	history HistoryStore,
	metrics http.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		scheduler:  sched,
		reconciler: reconciler,
		stats:      stats,
		history:    history,
		metrics:    metrics,
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get("/scheduler", s.handleSchedulerStatus)
	r.Post("/scheduler/start", s.handleSchedulerStart)
	r.Post("/scheduler/stop", s.handleSchedulerStop)

	r.Get("/pages", s.handleListPages)
	r.Get("/pages/{pageID}", s.handleGetPage)
	r.Get("/pages/{pageID}/ads", s.handleListAds)
	r.Post("/pages/{pageID}/reconcile", s.handleReconcile)
	r.Get("/ads/{adID}", s.handleGetAd)
	r.Get("/ads/{adID}/history", s.handleHistory)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scheduler.Status())
}

func (s *Server) handleSchedulerStart(w http.ResponseWriter, r *http.Request) {
	s.scheduler.Start()
	writeJSON(w, http.StatusOK, s.scheduler.Status())
}

// handleSchedulerStop returns once the in-flight page, if any, has finished.
func (s *Server) handleSchedulerStop(w http.ResponseWriter, r *http.Request) {
	s.scheduler.Stop()
	writeJSON(w, http.StatusOK, s.scheduler.Status())
}

// handleReconcile reconciles one page on demand. Unknown pages are bootstrapped
// and from then on picked up by the scheduler.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	summary, err := s.reconciler.ReconcilePage(context.WithoutCancel(r.Context()), pageID)
	if err != nil {
		s.logger.Error("on-demand reconcile failed", "page_id", pageID, "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleListPages returns the tracking stats of every page with the next
// scheduled run.
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.stats.Pages(r.Context())
	if err != nil {
		s.logger.Error("list page stats failed", "error", err)
		writeError(w, errorStatus(err), err)
		return
	}
	if pages == nil {
		pages = []domain.PageStats{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pages":     pages,
		"scheduler": s.scheduler.Status(),
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	page, err := s.stats.Page(r.Context(), pageID)
	if err != nil {
		s.logger.Warn("get page stats failed", "page_id", pageID, "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleListAds(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	ads, err := s.stats.Ads(r.Context(), pageID)
	if err != nil {
		s.logger.Warn("list ads failed", "page_id", pageID, "error", err)
		writeError(w, errorStatus(err), err)
		return
	}
	if ads == nil {
		ads = []domain.Ad{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page_id": pageID,
		"ads":     ads,
	})
}

func (s *Server) handleGetAd(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "adID")

	ad, err := s.stats.Ad(r.Context(), adID)
	if err != nil {
		s.logger.Warn("get ad failed", "ad_id", adID, "error", err)
		writeError(w, errorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, ad)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "adID")

	entries, err := s.history.ListByAd(r.Context(), adID)
	if err != nil {
		s.logger.Error("list status history failed", "ad_id", adID, "error", err)
		writeError(w, errorStatus(err), err)
		return
	}
	if entries == nil {
		entries = []domain.StatusLogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ad_id":   adID,
		"entries": entries,
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
