package postgres

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

	query := `
		INSERT INTO ad_status_log (id, ad_id, page_id, status, timestamp, reason)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query,
		entry.ID,
		entry.AdID,
		entry.PageID,
		entry.Status,
		entry.Timestamp,
		entry.Reason,
	)
	if err != nil {
		return domain.NewStoreError("append status log", err)
	}
	return nil
}

func (s *StatusLogStore) ListByAd(ctx context.Context, adID string) ([]domain.StatusLogEntry, error) {
	query := `
		SELECT id, ad_id, page_id, status, timestamp, reason
		FROM ad_status_log
		WHERE ad_id = $1
		ORDER BY timestamp ASC, id ASC`

	var entries []domain.StatusLogEntry
	if err := storage.GetExecutor(ctx, s.db).SelectContext(ctx, &entries, query, adID); err != nil {
		return nil, domain.NewStoreError("list status log", err)
	}
	return entries, nil
}
