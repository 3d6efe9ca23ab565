package domain

import "time"

type EventType string

const (
	EventAdCreated     EventType = "ad.created"
	EventAdDeactivated EventType = "ad.deactivated"
	EventAdReactivated EventType = "ad.reactivated"
)

// AdEvent is published to downstream consumers on every insert or transition.
type AdEvent struct {
	Type      EventType `json:"type"`
	Ad        Ad        `json:"ad"`
	Timestamp time.Time `json:"timestamp"`
}
