package sqlite

import (
	"context"
	"database/sql"
	"errors"
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

func (s *PageStore) Upsert(ctx context.Context, id, name string, at time.Time) error {
	query := `
		INSERT INTO pages (id, name, created_at, updated_at)
		VALUES (?, COALESCE(NULLIF(?, ''), ?), ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = CASE WHEN ? = '' THEN pages.name ELSE excluded.name END,
			updated_at = excluded.updated_at`

	at = at.UTC()
	_, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query,
		id, name, domain.UnknownPageName, at, at, name)
	if err != nil {
		return domain.NewStoreError("upsert page", err)
	}
	return nil
}

func (s *PageStore) Get(ctx context.Context, id string) (*domain.Page, error) {
	var page domain.Page
	err := storage.GetExecutor(ctx, s.db).GetContext(ctx, &page,
		`SELECT id, name, created_at, updated_at FROM pages WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
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
