package sqlite

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ad_tracker/internal/domain"
	"ad_tracker/internal/storage"
)

type StatusLogStore struct {
	db *sqlx.DB
}

func NewStatusLogStore(db *sqlx.DB) *StatusLogStore {
	return &StatusLogStore{db: db}
}

func (s *StatusLogStore) Append(ctx context.Context, entry *domain.StatusLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO ad_status_log (id, ad_id, page_id, status, timestamp, reason) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.AdID, entry.PageID, string(entry.Status), entry.Timestamp.UTC(), entry.Reason,
	)
	if err != nil {
		return domain.NewStoreError("append status log", err)
	}
	return nil
}

func (s *StatusLogStore) ListByAd(ctx context.Context, adID string) ([]domain.StatusLogEntry, error) {
	var entries []domain.StatusLogEntry
	err := storage.GetExecutor(ctx, s.db).SelectContext(ctx, &entries,
		`SELECT id, ad_id, page_id, status, timestamp, reason FROM ad_status_log WHERE ad_id = ? ORDER BY timestamp, id`,
		adID)
	if err != nil {
		return nil, domain.NewStoreError("list status log", err)
	}
	return entries, nil
}
