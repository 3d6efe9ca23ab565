// Package sqlite provides an embedded SQLite backend implementing the same
// store contracts as the postgres package. Used for local runs and tests.
package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS ads (
	id         TEXT PRIMARY KEY,
	page_id    TEXT NOT NULL REFERENCES pages(id),
	is_active  INTEGER NOT NULL DEFAULT 1,
	start_date DATETIME NOT NULL,
	end_date   DATETIME,
	first_seen DATETIME NOT NULL,
	last_seen  DATETIME NOT NULL,
	title      TEXT,
	url        TEXT,
	CHECK ((is_active = 1 AND end_date IS NULL) OR (is_active = 0 AND end_date IS NOT NULL))
);
CREATE INDEX IF NOT EXISTS ads_page_start_idx ON ads(page_id, start_date, id);
CREATE TABLE IF NOT EXISTS ad_status_log (
	id        TEXT PRIMARY KEY,
	ad_id     TEXT NOT NULL REFERENCES ads(id),
	page_id   TEXT NOT NULL REFERENCES pages(id),
	status    TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	reason    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS ad_status_log_ad_idx ON ad_status_log(ad_id);
`

// Open opens or creates the database at path and applies the schema.
// Timestamps are stored as UTC text so that ORDER BY on them is chronological.
func Open(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", path)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}
