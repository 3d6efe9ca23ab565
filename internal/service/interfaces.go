package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"ad_tracker/internal/domain"
)

type PageStore interface {
	Upsert(ctx context.Context, id, name string, at time.Time) error
}

type AdStore interface {
	Create(ctx context.Context, ad *domain.Ad) error
	ListByPage(ctx context.Context, pageID string, order domain.SortOrder) ([]domain.Ad, error)
	ListActiveByPage(ctx context.Context, pageID string) ([]domain.Ad, error)
	UpdateStatus(ctx context.Context, update domain.StatusUpdate) error
}

type StatusLogStore interface {
	Append(ctx context.Context, entry *domain.StatusLogEntry) error
}

// Source returns one page of a page's ads, newest first. An empty cursor
// requests the first page; an empty returned cursor means no further pages.
type Source interface {
	FetchAdsPage(ctx context.Context, pageID, cursor string) (*domain.AdsPage, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.AdEvent) error
	Close() error
}

type MetricsRecorder interface {
	RecordReconcile(summary *domain.Summary)
	RecordReconcileFailure(pageID string, err error)
	RecordOrderingViolation(pageID string)
	RecordPublishFailure(eventType domain.EventType)
}
