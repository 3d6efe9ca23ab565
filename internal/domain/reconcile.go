package domain

import "time"

// Summary holds the outcome of one page reconciliation.
type Summary struct {
	PageID         string        `json:"page_id"`
	New            int           `json:"new"`
	StillActive    int           `json:"still_active"`
	BecameInactive int           `json:"became_inactive"`
	Reactivated    int           `json:"reactivated"`
	Bootstrapped   bool          `json:"bootstrapped"`
	SkippedChecks  bool          `json:"skipped_checks"`
	PagesFetched   int           `json:"pages_fetched"`
	Duration       time.Duration `json:"duration_ns"`
}

// Changed reports whether the reconciliation inserted or transitioned any ad.
func (s *Summary) Changed() bool {
	return s.New > 0 || s.BecameInactive > 0 || s.Reactivated > 0
}

// Boundary marks the oldest ad known for a page. Incremental pagination
// stops once it, or anything dated at or before it, is reached.
type Boundary struct {
	AdID      string
	StartDate time.Time
	IsActive  bool
}

func BoundaryOf(ad *Ad) *Boundary {
	return &Boundary{AdID: ad.ID, StartDate: ad.StartDate, IsActive: ad.IsActive}
}

// Reached reports whether pagination must stop at an ad with the given id and start date.
func (b *Boundary) Reached(adID string, startDate time.Time) bool {
	return adID == b.AdID || !startDate.After(b.StartDate)
}
