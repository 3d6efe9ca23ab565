package domain

import (
	"fmt"
	"strings"
	"time"
)

const adLibraryURL = "https://www.facebook.com/ads/library/?id="

type Ad struct {
	ID        string     `db:"id" json:"id"`
	PageID    string     `db:"page_id" json:"page_id"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	FirstSeen time.Time  `db:"first_seen" json:"first_seen"`
	LastSeen  time.Time  `db:"last_seen" json:"last_seen"`
	Title     *string    `db:"title" json:"title,omitempty"`
	URL       *string    `db:"url" json:"url,omitempty"`
}

// Untracked reports whether no status check has run for the ad yet,
// i.e. first_seen and last_seen are within tolerance of each other.
func (a *Ad) Untracked(tolerance time.Duration) bool {
	d := a.LastSeen.Sub(a.FirstSeen)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}

// OlderThan orders ads by (start_date, id) ascending.
func (a *Ad) OlderThan(b *Ad) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.Before(b.StartDate)
	}
	return a.ID < b.ID
}

// AdRecord is a single ad as reported by the ads source.
type AdRecord struct {
	AdID            string
	PageID          string
	PageName        string
	IsActive        bool
	StartDateString string
	EndDateString   string
	Title           string
	URL             string
}

// AdsPage is one page of source results with the cursor for the next one.
type AdsPage struct {
	Results []AdRecord
	Cursor  string
}

var startDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseStartDate parses the source start date. A missing or unparseable
// value yields ErrMalformedRecord.
func (r *AdRecord) ParseStartDate() (time.Time, error) {
	s := strings.TrimSpace(r.StartDateString)
	if s == "" {
		return time.Time{}, ErrMalformedRecord
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrMalformedRecord
}

// LibraryURL returns the reported URL, or the public ad-library link for the ad.
func (r *AdRecord) LibraryURL() string {
	if r.URL != "" {
		return r.URL
	}
	return adLibraryURL + r.AdID
}

// NewAd builds a freshly observed, active ad.
func NewAd(pageID string, rec AdRecord, startDate, now time.Time) *Ad {
	ad := &Ad{
		ID:        rec.AdID,
		PageID:    pageID,
		IsActive:  true,
		StartDate: startDate,
		FirstSeen: now,
		LastSeen:  now,
	}
	url := rec.LibraryURL()
	ad.URL = &url
	if rec.Title != "" {
		title := rec.Title
		ad.Title = &title
	}
	return ad
}

// StatusUpdate is the single-row change applied by AdStore.UpdateStatus.
// EndDate must be nil when IsActive is true and set otherwise.
type StatusUpdate struct {
	AdID     string
	IsActive bool
	EndDate  *time.Time
	LastSeen time.Time
}

func Seen(ad *Ad, now time.Time) StatusUpdate {
	return StatusUpdate{AdID: ad.ID, IsActive: ad.IsActive, EndDate: ad.EndDate, LastSeen: now}
}

func Deactivate(ad *Ad, now time.Time) StatusUpdate {
	end := now
	return StatusUpdate{AdID: ad.ID, IsActive: false, EndDate: &end, LastSeen: now}
}

func Reactivate(ad *Ad, now time.Time) StatusUpdate {
	return StatusUpdate{AdID: ad.ID, IsActive: true, EndDate: nil, LastSeen: now}
}

// Validate rejects updates that would break the end_date/is_active pairing.
func (u StatusUpdate) Validate() error {
	if u.IsActive && u.EndDate != nil {
		return fmt.Errorf("%w: active ad %s with end date", ErrMalformedRecord, u.AdID)
	}
	if !u.IsActive && u.EndDate == nil {
		return fmt.Errorf("%w: inactive ad %s without end date", ErrMalformedRecord, u.AdID)
	}
	return nil
}

type SortOrder int

const (
	OldestFirst SortOrder = iota
	NewestFirst
)
