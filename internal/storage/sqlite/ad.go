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

const adColumns = `id, page_id, is_active, start_date, end_date, first_seen, last_seen, title, url`

type AdStore struct {
	db *sqlx.DB
}

func NewAdStore(db *sqlx.DB) *AdStore {
	return &AdStore{db: db}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *AdStore) Create(ctx context.Context, ad *domain.Ad) error {
	query := `
		INSERT INTO ads (` + adColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`

	res, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query,
		ad.ID,
		ad.PageID,
		ad.IsActive,
		ad.StartDate.UTC(),
		utcPtr(ad.EndDate),
		ad.FirstSeen.UTC(),
		ad.LastSeen.UTC(),
		ad.Title,
		ad.URL,
	)
	if err != nil {
		return domain.NewStoreError("create ad", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("create ad", err)
	}
	if n == 0 {
		return domain.ErrDuplicateKey
	}
	return nil
}

func (s *AdStore) Get(ctx context.Context, id string) (*domain.Ad, error) {
	var ad domain.Ad
	err := storage.GetExecutor(ctx, s.db).GetContext(ctx, &ad,
		`SELECT `+adColumns+` FROM ads WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError("get ad", err)
	}
	return &ad, nil
}

func (s *AdStore) ListByPage(ctx context.Context, pageID string, order domain.SortOrder) ([]domain.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE page_id = ? ORDER BY start_date ASC, id ASC`
	if order == domain.NewestFirst {
		query = `SELECT ` + adColumns + ` FROM ads WHERE page_id = ? ORDER BY start_date DESC, id DESC`
	}

	var ads []domain.Ad
	if err := storage.GetExecutor(ctx, s.db).SelectContext(ctx, &ads, query, pageID); err != nil {
		return nil, domain.NewStoreError("list ads", err)
	}
	return ads, nil
}

func (s *AdStore) ListActiveByPage(ctx context.Context, pageID string) ([]domain.Ad, error) {
	query := `
		SELECT ` + adColumns + `
		FROM ads
		WHERE page_id = ? AND is_active = 1
		ORDER BY start_date ASC, id ASC`

	var ads []domain.Ad
	if err := storage.GetExecutor(ctx, s.db).SelectContext(ctx, &ads, query, pageID); err != nil {
		return nil, domain.NewStoreError("list active ads", err)
	}
	return ads, nil
}

func (s *AdStore) UpdateStatus(ctx context.Context, u domain.StatusUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE ads SET
			is_active = ?,
			end_date = ?,
			last_seen = max(last_seen, ?)
		WHERE id = ?`

	res, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query,
		u.IsActive, utcPtr(u.EndDate), u.LastSeen.UTC(), u.AdID)
	if err != nil {
		return domain.NewStoreError("update ad status", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("update ad status", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
