package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ad_tracker/internal/domain"
	"ad_tracker/internal/scheduler"
)

type fakeScheduler struct {
	running bool
	next    time.Time
	starts  int
	stops   int
}

func (f *fakeScheduler) Start() {
	f.starts++
	f.running = true
}

func (f *fakeScheduler) Stop() {
	f.stops++
	f.running = false
}

func (f *fakeScheduler) Status() scheduler.Status {
	if !f.running {
		return scheduler.Status{}
	}
	next := f.next
	return scheduler.Status{Running: true, NextRunAt: &next}
}

type fakeReconciler struct {
	summary *domain.Summary
	err     error
	pageID  string
}

func (f *fakeReconciler) ReconcilePage(_ context.Context, pageID string) (*domain.Summary, error) {
	f.pageID = pageID
	return f.summary, f.err
}

type fakeHistory struct {
	entries []domain.StatusLogEntry
	err     error
}

func (f *fakeHistory) ListByAd(context.Context, string) ([]domain.StatusLogEntry, error) {
	return f.entries, f.err
}

type fakeStats struct {
	pages []domain.PageStats
	ads   []domain.Ad
	err   error
}

func (f *fakeStats) Pages(context.Context) ([]domain.PageStats, error) {
	return f.pages, f.err
}

func (f *fakeStats) Page(_ context.Context, pageID string) (*domain.PageStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.pages {
		if f.pages[i].ID == pageID {
			return &f.pages[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStats) Ads(_ context.Context, pageID string) ([]domain.Ad, error) {
	if _, err := f.Page(context.Background(), pageID); err != nil {
		return nil, err
	}
	return f.ads, nil
}

func (f *fakeStats) Ad(_ context.Context, adID string) (*domain.Ad, error) {
	for i := range f.ads {
		if f.ads[i].ID == adID {
			return &f.ads[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type RouterTestSuite struct {
	suite.Suite
	scheduler  *fakeScheduler
	reconciler *fakeReconciler
	stats      *fakeStats
	history    *fakeHistory
	server     *Server
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.scheduler = &fakeScheduler{next: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	s.reconciler = &fakeReconciler{}
	s.stats = &fakeStats{}
	s.history = &fakeHistory{}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ad_tracker_up 1\n"))
	})
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.server = New(s.scheduler, s.reconciler, s.stats, s.history, metrics, logger)
}

func (s *RouterTestSuite) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(w.Body).Decode(v))
}

func (s *RouterTestSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/json", w.Header().Get("Content-Type"))
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (s *RouterTestSuite) TestMetricsMounted() {
	w := s.do(http.MethodGet, "/metrics")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "ad_tracker_up 1")
}

func (s *RouterTestSuite) TestSchedulerLifecycle() {
	w := s.do(http.MethodGet, "/scheduler")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"running":false}`, w.Body.String())

	w = s.do(http.MethodPost, "/scheduler/start")
	s.Equal(http.StatusOK, w.Code)
	var st scheduler.Status
	s.decode(w, &st)
	s.True(st.Running)
	s.Require().NotNil(st.NextRunAt)
	s.True(st.NextRunAt.Equal(s.scheduler.next))

	w = s.do(http.MethodPost, "/scheduler/stop")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"running":false}`, w.Body.String())

	s.Equal(1, s.scheduler.starts)
	s.Equal(1, s.scheduler.stops)
}

func (s *RouterTestSuite) TestSchedulerStartRequiresPost() {
	w := s.do(http.MethodGet, "/scheduler/start")

	s.Equal(http.StatusMethodNotAllowed, w.Code)
	s.Zero(s.scheduler.starts)
}

func (s *RouterTestSuite) TestReconcilePage() {
	s.reconciler.summary = &domain.Summary{PageID: "12345", New: 20, Bootstrapped: true, PagesFetched: 1}

	w := s.do(http.MethodPost, "/pages/12345/reconcile")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("12345", s.reconciler.pageID)

	var summary domain.Summary
	s.decode(w, &summary)
	s.Equal(20, summary.New)
	s.True(summary.Bootstrapped)
}

func (s *RouterTestSuite) TestReconcilePage_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"source", &domain.SourceError{PageID: "1", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"store", domain.NewStoreError("list ads", errors.New("down")), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.reconciler.err = tt.err

			w := s.do(http.MethodPost, "/pages/1/reconcile")

			s.Equal(tt.code, w.Code)
			var body map[string]string
			s.decode(w, &body)
			s.Equal(tt.err.Error(), body["error"])
		})
	}
}

func (s *RouterTestSuite) TestHistory() {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.history.entries = []domain.StatusLogEntry{
		{ID: "e1", AdID: "ad-1", PageID: "p1", Status: domain.StatusDeactivated, Timestamp: ts},
	}

	w := s.do(http.MethodGet, "/ads/ad-1/history")

	s.Equal(http.StatusOK, w.Code)
	var body struct {
		AdID    string                  `json:"ad_id"`
		Entries []domain.StatusLogEntry `json:"entries"`
	}
	s.decode(w, &body)
	s.Equal("ad-1", body.AdID)
	s.Require().Len(body.Entries, 1)
	s.Equal(domain.StatusDeactivated, body.Entries[0].Status)
}

func (s *RouterTestSuite) TestHistory_Empty() {
	w := s.do(http.MethodGet, "/ads/unknown/history")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"ad_id":"unknown","entries":[]}`, w.Body.String())
}

func (s *RouterTestSuite) seedStats() {
	boundary := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.stats.pages = []domain.PageStats{
		{
			Page:              domain.Page{ID: "p1", Name: "Acme"},
			TotalAds:          3,
			ActiveAds:         2,
			BoundaryAdID:      "ad-1",
			BoundaryStartDate: &boundary,
		},
		{Page: domain.Page{ID: "p2", Name: "Globex"}},
	}
	s.stats.ads = []domain.Ad{
		{ID: "ad-2", PageID: "p1", IsActive: true},
		{ID: "ad-1", PageID: "p1", IsActive: true},
	}
}

func (s *RouterTestSuite) TestListPages() {
	s.seedStats()
	s.scheduler.Start()

	w := s.do(http.MethodGet, "/pages")

	s.Equal(http.StatusOK, w.Code)
	var body struct {
		Pages     []domain.PageStats `json:"pages"`
		Scheduler scheduler.Status   `json:"scheduler"`
	}
	s.decode(w, &body)
	s.Require().Len(body.Pages, 2)
	s.Equal("p1", body.Pages[0].ID)
	s.Equal("Acme", body.Pages[0].Name)
	s.Equal(3, body.Pages[0].TotalAds)
	s.Equal(2, body.Pages[0].ActiveAds)
	s.Equal("ad-1", body.Pages[0].BoundaryAdID)
	s.Empty(body.Pages[1].BoundaryAdID)
	s.Nil(body.Pages[1].BoundaryStartDate)
	s.True(body.Scheduler.Running)
	s.Require().NotNil(body.Scheduler.NextRunAt)
}

func (s *RouterTestSuite) TestListPages_Empty() {
	w := s.do(http.MethodGet, "/pages")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"pages":[],"scheduler":{"running":false}}`, w.Body.String())
}

func (s *RouterTestSuite) TestListPages_StoreFailure() {
	s.stats.err = domain.NewStoreError("list pages", errors.New("down"))

	w := s.do(http.MethodGet, "/pages")

	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *RouterTestSuite) TestGetPage() {
	s.seedStats()

	w := s.do(http.MethodGet, "/pages/p1")
	s.Equal(http.StatusOK, w.Code)
	var page domain.PageStats
	s.decode(w, &page)
	s.Equal("ad-1", page.BoundaryAdID)

	w = s.do(http.MethodGet, "/pages/missing")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestListAds() {
	s.seedStats()

	w := s.do(http.MethodGet, "/pages/p1/ads")
	s.Equal(http.StatusOK, w.Code)
	var body struct {
		PageID string      `json:"page_id"`
		Ads    []domain.Ad `json:"ads"`
	}
	s.decode(w, &body)
	s.Equal("p1", body.PageID)
	s.Len(body.Ads, 2)

	w = s.do(http.MethodGet, "/pages/missing/ads")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestGetAd() {
	s.seedStats()

	w := s.do(http.MethodGet, "/ads/ad-2")
	s.Equal(http.StatusOK, w.Code)
	var ad domain.Ad
	s.decode(w, &ad)
	s.Equal("p1", ad.PageID)

	w = s.do(http.MethodGet, "/ads/missing")
	s.Equal(http.StatusNotFound, w.Code)
}
