package domain

import "time"

// UnknownPageName is used when a page is first seen without a name.
const UnknownPageName = "Unknown Page"

type Page struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PageStats is the tracking state of a page derived from its stored ads.
type PageStats struct {
	Page
	TotalAds          int        `json:"total_ads"`
	ActiveAds         int        `json:"active_ads"`
	BoundaryAdID      string     `json:"boundary_ad_id,omitempty"`
	BoundaryStartDate *time.Time `json:"boundary_start_date,omitempty"`
}
