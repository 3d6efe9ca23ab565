package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"ad_tracker/internal/domain"
	"ad_tracker/internal/storage"
)

type PageStore struct {
	db *sqlx.DB
}

func NewPageStore(db *sqlx.DB) *PageStore {
	return &PageStore{db: db}
}

// Upsert creates the page or refreshes its name and updated_at. An empty
// name keeps the stored one.
func (s *PageStore) Upsert(ctx context.Context, id, name string, at time.Time) error {
	query := `
		INSERT INTO pages (id, name, created_at, updated_at)
		VALUES ($1, COALESCE(NULLIF($2::text, ''), $4), $3, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = CASE WHEN $2::text = '' THEN pages.name ELSE EXCLUDED.name END,
			updated_at = EXCLUDED.updated_at`

	_, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query, id, name, at, domain.UnknownPageName)
	if err != nil {
		return domain.NewStoreError("upsert page", err)
	}
	return nil
}

func (s *PageStore) Get(ctx context.Context, id string) (*domain.Page, error) {
	var page domain.Page
	err := storage.GetExecutor(ctx, s.db).GetContext(ctx, &page,
		`SELECT id, name, created_at, updated_at FROM pages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError("get page", err)
	}
	return &page, nil
}

func (s *PageStore) List(ctx context.Context) ([]domain.Page, error) {
	var pages []domain.Page
	err := storage.GetExecutor(ctx, s.db).SelectContext(ctx, &pages,
		`SELECT id, name, created_at, updated_at FROM pages ORDER BY created_at, id`)
	if err != nil {
		return nil, domain.NewStoreError("list pages", err)
	}
	return pages, nil
}
