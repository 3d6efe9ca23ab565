//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ad_tracker/internal/domain"
	"ad_tracker/internal/storage"
	"ad_tracker/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
	now       time.Time
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(RunMigrations(connStr))
	// A second run must be a no-op.
	s.Require().NoError(RunMigrations(connStr))

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM ad_status_log")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM ads")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM pages")

	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(NewPageStore(s.db).Upsert(s.ctx, "page-1", "Acme", s.now))
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) newAd(id string, start time.Time) *domain.Ad {
	return &domain.Ad{
		ID:        id,
		PageID:    "page-1",
		IsActive:  true,
		StartDate: start,
		FirstSeen: s.now,
		LastSeen:  s.now,
		Title:     utils.Ptr("title " + id),
		URL:       utils.Ptr("https://example.com/" + id),
	}
}

func (s *PostgresIntegrationSuite) TestPageStore_Upsert() {
	store := NewPageStore(s.db)
	later := s.now.Add(time.Hour)

	s.NoError(store.Upsert(s.ctx, "page-1", "", later))
	page, err := store.Get(s.ctx, "page-1")
	s.Require().NoError(err)
	s.Equal("Acme", page.Name)
	s.True(page.UpdatedAt.Equal(later))
	s.True(page.CreatedAt.Equal(s.now))

	s.NoError(store.Upsert(s.ctx, "page-2", "", s.now))
	page, err = store.Get(s.ctx, "page-2")
	s.Require().NoError(err)
	s.Equal(domain.UnknownPageName, page.Name)

	pages, err := store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(pages, 2)

	_, err = store.Get(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestAdStore_CreateAndGet() {
	store := NewAdStore(s.db)
	ad := s.newAd("ad-1", s.now.Add(-24*time.Hour))

	s.Require().NoError(store.Create(s.ctx, ad))

	got, err := store.Get(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.Equal("page-1", got.PageID)
	s.True(got.IsActive)
	s.Nil(got.EndDate)
	s.True(got.StartDate.Equal(ad.StartDate))
	s.Require().NotNil(got.Title)
	s.Equal("title ad-1", *got.Title)
}

func (s *PostgresIntegrationSuite) TestAdStore_CreateDuplicate() {
	store := NewAdStore(s.db)
	ad := s.newAd("ad-1", s.now)

	s.Require().NoError(store.Create(s.ctx, ad))
	err := store.Create(s.ctx, ad)
	s.ErrorIs(err, domain.ErrDuplicateKey)

	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM ads WHERE id = $1", "ad-1"))
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestAdStore_ListOrdering() {
	store := NewAdStore(s.db)
	day := 24 * time.Hour

	s.Require().NoError(store.Create(s.ctx, s.newAd("b", s.now.Add(-2*day))))
	s.Require().NoError(store.Create(s.ctx, s.newAd("a", s.now.Add(-2*day))))
	s.Require().NoError(store.Create(s.ctx, s.newAd("c", s.now.Add(-day))))
	s.Require().NoError(store.UpdateStatus(s.ctx, domain.StatusUpdate{
		AdID: "a", IsActive: false, EndDate: &s.now, LastSeen: s.now,
	}))

	oldest, err := store.ListByPage(s.ctx, "page-1", domain.OldestFirst)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c"}, ids(oldest))

	newest, err := store.ListByPage(s.ctx, "page-1", domain.NewestFirst)
	s.Require().NoError(err)
	s.Equal([]string{"c", "b", "a"}, ids(newest))

	active, err := store.ListActiveByPage(s.ctx, "page-1")
	s.Require().NoError(err)
	s.Equal([]string{"b", "c"}, ids(active))
}

func (s *PostgresIntegrationSuite) TestAdStore_UpdateStatus() {
	store := NewAdStore(s.db)
	s.Require().NoError(store.Create(s.ctx, s.newAd("ad-1", s.now)))

	later := s.now.Add(time.Hour)
	s.Require().NoError(store.UpdateStatus(s.ctx, domain.StatusUpdate{
		AdID: "ad-1", IsActive: false, EndDate: &later, LastSeen: later,
	}))

	got, err := store.Get(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.False(got.IsActive)
	s.Require().NotNil(got.EndDate)
	s.True(got.EndDate.Equal(later))
	s.True(got.LastSeen.Equal(later))

	// last_seen never moves backwards.
	s.Require().NoError(store.UpdateStatus(s.ctx, domain.StatusUpdate{
		AdID: "ad-1", IsActive: true, LastSeen: s.now,
	}))
	got, err = store.Get(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.True(got.IsActive)
	s.Nil(got.EndDate)
	s.True(got.LastSeen.Equal(later))
}

func (s *PostgresIntegrationSuite) TestAdStore_UpdateStatusRejectsInconsistentUpdate() {
	store := NewAdStore(s.db)
	s.Require().NoError(store.Create(s.ctx, s.newAd("ad-1", s.now)))

	err := store.UpdateStatus(s.ctx, domain.StatusUpdate{AdID: "ad-1", IsActive: false, LastSeen: s.now})
	s.ErrorIs(err, domain.ErrMalformedRecord)

	err = store.UpdateStatus(s.ctx, domain.StatusUpdate{AdID: "missing", IsActive: true, LastSeen: s.now})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestAdStore_UnknownPage() {
	store := NewAdStore(s.db)
	ad := s.newAd("ad-1", s.now)
	ad.PageID = "no-such-page"

	err := store.Create(s.ctx, ad)
	s.ErrorIs(err, domain.ErrStoreUnavailable)
}

func (s *PostgresIntegrationSuite) TestStatusLogStore_AppendAndList() {
	ads := NewAdStore(s.db)
	logs := NewStatusLogStore(s.db)
	s.Require().NoError(ads.Create(s.ctx, s.newAd("ad-1", s.now)))

	s.Require().NoError(logs.Append(s.ctx, &domain.StatusLogEntry{
		AdID: "ad-1", PageID: "page-1", Status: domain.StatusDeactivated, Timestamp: s.now, Reason: "gone",
	}))
	s.Require().NoError(logs.Append(s.ctx, &domain.StatusLogEntry{
		AdID: "ad-1", PageID: "page-1", Status: domain.StatusReactivated, Timestamp: s.now.Add(time.Hour),
	}))

	entries, err := logs.ListByAd(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.StatusDeactivated, entries[0].Status)
	s.Equal("gone", entries[0].Reason)
	s.NotEmpty(entries[0].ID)
	s.Equal(domain.StatusReactivated, entries[1].Status)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := storage.NewTransactionManager(s.db)
	ads := NewAdStore(s.db)
	logs := NewStatusLogStore(s.db)
	s.Require().NoError(ads.Create(s.ctx, s.newAd("ad-1", s.now)))

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := ads.UpdateStatus(ctx, domain.StatusUpdate{AdID: "ad-1", EndDate: &s.now, LastSeen: s.now}); err != nil {
			return err
		}
		return logs.Append(ctx, &domain.StatusLogEntry{
			AdID: "ad-1", PageID: "page-1", Status: domain.StatusDeactivated, Timestamp: s.now,
		})
	})
	s.Require().NoError(err)

	got, err := ads.Get(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.False(got.IsActive)

	entries, err := logs.ListByAd(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := storage.NewTransactionManager(s.db)
	ads := NewAdStore(s.db)
	logs := NewStatusLogStore(s.db)
	s.Require().NoError(ads.Create(s.ctx, s.newAd("ad-1", s.now)))

	failure := errors.New("log append failed")
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := ads.UpdateStatus(ctx, domain.StatusUpdate{AdID: "ad-1", EndDate: &s.now, LastSeen: s.now}); err != nil {
			return err
		}
		return failure
	})
	s.ErrorIs(err, failure)

	got, err := ads.Get(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.True(got.IsActive)
	s.Nil(got.EndDate)

	entries, err := logs.ListByAd(s.ctx, "ad-1")
	s.Require().NoError(err)
	s.Empty(entries)
}

func ids(ads []domain.Ad) []string {
	out := make([]string, 0, len(ads))
	for _, ad := range ads {
		out = append(out, ad.ID)
	}
	return out
}
