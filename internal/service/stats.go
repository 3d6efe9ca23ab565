package service

import (
	"context"
	"fmt"

	"ad_tracker/internal/domain"
)

type PageReader interface {
	Get(ctx context.Context, id string) (*domain.Page, error)
	List(ctx context.Context) ([]domain.Page, error)
}

type AdReader interface {
	AdStore
	Get(ctx context.Context, id string) (*domain.Ad, error)
}

// StatsService reports what is stored for tracked pages. Nothing it returns is
// fetched from the source.
type StatsService struct {
	pages      PageReader
	ads        AdReader
	boundaries *BoundaryTracker
}

func NewStatsService(pages PageReader, ads AdReader) *StatsService {
	return &StatsService{
		pages:      pages,
		ads:        ads,
		boundaries: NewBoundaryTracker(ads),
	}
}

// Pages returns the stats of every tracked page.
func (s *StatsService) Pages(ctx context.Context) ([]domain.PageStats, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]domain.PageStats, 0, len(pages))
	for _, page := range pages {
		st, err := s.stats(ctx, page)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *st)
	}
	return stats, nil
}

// Page returns the stats of one page, or domain.ErrNotFound.
func (s *StatsService) Page(ctx context.Context, pageID string) (*domain.PageStats, error) {
	page, err := s.pages.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return s.stats(ctx, *page)
}

// Ads lists the stored ads of a page, newest first.
func (s *StatsService) Ads(ctx context.Context, pageID string) ([]domain.Ad, error) {
	if _, err := s.pages.Get(ctx, pageID); err != nil {
		return nil, err
	}
	return s.ads.ListByPage(ctx, pageID, domain.NewestFirst)
}

func (s *StatsService) Ad(ctx context.Context, adID string) (*domain.Ad, error) {
	return s.ads.Get(ctx, adID)
}

func (s *StatsService) stats(ctx context.Context, page domain.Page) (*domain.PageStats, error) {
	ads, err := s.ads.ListByPage(ctx, page.ID, domain.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("stats for page %s: %w", page.ID, err)
	}

	st := &domain.PageStats{Page: page, TotalAds: len(ads)}
	for i := range ads {
		if ads[i].IsActive {
			st.ActiveAds++
		}
	}

	boundary, err := s.boundaries.Resolve(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("boundary for page %s: %w", page.ID, err)
	}
	if boundary != nil {
		start := boundary.StartDate
		st.BoundaryAdID = boundary.AdID
		st.BoundaryStartDate = &start
	}
	return st, nil
}
