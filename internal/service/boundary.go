package service

import (
	"context"

	"ad_tracker/internal/domain"
)

// BoundaryTracker derives the pagination boundary of a page from the stored
// ads. The boundary is never persisted.
type BoundaryTracker struct {
	ads AdStore
}

func NewBoundaryTracker(ads AdStore) *BoundaryTracker {
	return &BoundaryTracker{ads: ads}
}

// Current returns the oldest known ad of the page by (start_date, id), or
// nil when the page has no ads.
func (t *BoundaryTracker) Current(ctx context.Context, pageID string) (*domain.Boundary, error) {
	ads, err := t.ads.ListByPage(ctx, pageID, domain.OldestFirst)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, nil
	}
	return domain.BoundaryOf(&ads[0]), nil
}

// Rederive returns the oldest active ad of the page, or nil when none is active.
func (t *BoundaryTracker) Rederive(ctx context.Context, pageID string) (*domain.Boundary, error) {
	ads, err := t.ads.ListActiveByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, nil
	}
	return domain.BoundaryOf(&ads[0]), nil
}

// Resolve returns the boundary pagination should use: the current boundary
// while it is active, otherwise the oldest active ad.
func (t *BoundaryTracker) Resolve(ctx context.Context, pageID string) (*domain.Boundary, error) {
	current, err := t.Current(ctx, pageID)
	if err != nil || current == nil || current.IsActive {
		return current, err
	}
	return t.Rederive(ctx, pageID)
}

// ResolveFrom applies the Resolve rule to an already loaded ad set, in any order.
func ResolveFrom(ads []domain.Ad) *domain.Boundary {
	var oldest, oldestActive *domain.Ad
	for i := range ads {
		ad := &ads[i]
		if oldest == nil || ad.OlderThan(oldest) {
			oldest = ad
		}
		if ad.IsActive && (oldestActive == nil || ad.OlderThan(oldestActive)) {
			oldestActive = ad
		}
	}

	if oldest != nil && oldest.IsActive {
		return domain.BoundaryOf(oldest)
	}
	if oldestActive != nil {
		return domain.BoundaryOf(oldestActive)
	}
	return nil
}
