// Package storage holds what the database backends have in common. Both the
// Postgres and the SQLite stores are built on sqlx, so one transaction manager
// serves them: it opens the transaction, puts it in the context, and every
// store picks it up through GetExecutor. A status change and its log entry,
// written by two different stores, thereby commit or roll back together.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"ad_tracker/internal/domain"
)

type txContextKey struct{}

type TransactionManager struct {
	db *sqlx.DB
}

func NewTransactionManager(db *sqlx.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn inside a transaction. When ctx already carries one,
// fn joins it and the outermost call decides whether to commit. Failures to
// begin or commit are reported as domain.ErrStoreUnavailable; errors from fn
// are returned unchanged.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStoreError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError("commit transaction", err)
	}
	return nil
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txContextKey{}).(*sqlx.Tx)
	return tx
}

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type Executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// GetExecutor returns the transaction carried by ctx, or db when there is none.
func GetExecutor(ctx context.Context, db *sqlx.DB) Executor {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
