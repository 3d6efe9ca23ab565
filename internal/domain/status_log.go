package domain

import "time"

type AdStatus string

const (
	StatusDeactivated AdStatus = "deactivated"
	StatusReactivated AdStatus = "reactivated"
)

// StatusLogEntry is an append-only record of an ad status transition.
type StatusLogEntry struct {
	ID        string    `db:"id" json:"id"`
	AdID      string    `db:"ad_id" json:"ad_id"`
	PageID    string    `db:"page_id" json:"page_id"`
	Status    AdStatus  `db:"status" json:"status"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Reason    string    `db:"reason" json:"reason"`
}
