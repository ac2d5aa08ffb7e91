package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
)

// Transactor runs league scoped units of work in one database transaction.
// A transaction level advisory lock keyed by the league id serializes work
// per league across every API instance.
type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) InLeagueTx(ctx context.Context, leagueID string, fn func(ctx context.Context) error) error {
	if fn == nil {
		return errors.New("transaction func is required")
	}
	if _, nested := ctx.Value(txKey{}).(*sqlx.Tx); nested {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin league tx league=%s", leagueID)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, leagueID); err != nil {
		return errors.Wrapf(err, "lock league=%s", leagueID)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit league tx league=%s", leagueID)
	}
	return nil
}
