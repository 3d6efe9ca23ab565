package postgres

import (
	"context"
	"database/sql"
	"errors"

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

// Create inserts a new ad. It returns domain.ErrDuplicateKey when the id is
// already stored; the existing row is left untouched.
func (s *AdStore) Create(ctx context.Context, ad *domain.Ad) error {
	query := `
		INSERT INTO ads (` + adColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
		RETURNING id`

	var id string
	err := storage.GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		ad.ID,
		ad.PageID,
		ad.IsActive,
		ad.StartDate,
		ad.EndDate,
		ad.FirstSeen,
		ad.LastSeen,
		ad.Title,
		ad.URL,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDuplicateKey
	}
	if err != nil {
		return domain.NewStoreError("create ad", err)
	}
	return nil
}

func (s *AdStore) Get(ctx context.Context, id string) (*domain.Ad, error) {
	var ad domain.Ad
	err := storage.GetExecutor(ctx, s.db).GetContext(ctx, &ad,
		`SELECT `+adColumns+` FROM ads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError("get ad", err)
	}
	return &ad, nil
}

func (s *AdStore) ListByPage(ctx context.Context, pageID string, order domain.SortOrder) ([]domain.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE page_id = $1 ORDER BY start_date ASC, id ASC`
	if order == domain.NewestFirst {
		query = `SELECT ` + adColumns + ` FROM ads WHERE page_id = $1 ORDER BY start_date DESC, id DESC`
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
		WHERE page_id = $1 AND is_active
		ORDER BY start_date ASC, id ASC`

	var ads []domain.Ad
	if err := storage.GetExecutor(ctx, s.db).SelectContext(ctx, &ads, query, pageID); err != nil {
		return nil, domain.NewStoreError("list active ads", err)
	}
	return ads, nil
}

// UpdateStatus applies is_active, end_date and last_seen in a single row update.
func (s *AdStore) UpdateStatus(ctx context.Context, u domain.StatusUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE ads SET
			is_active = $2,
			end_date = $3,
			last_seen = GREATEST(last_seen, $4)
		WHERE id = $1`

	res, err := storage.GetExecutor(ctx, s.db).ExecContext(ctx, query, u.AdID, u.IsActive, u.EndDate, u.LastSeen)
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
