package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	qb "github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

type LeagueStandingRepository struct {
	db *sqlx.DB
}

func NewLeagueStandingRepository(db *sqlx.DB) *LeagueStandingRepository {
	return &LeagueStandingRepository{db: db}
}

func (r *LeagueStandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("rank", "participant_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list league standings query")
	}

	var rows []leagueStandingTableModel
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list league standings league=%s", leagueID)
	}

	out := make([]leaguestanding.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaguestanding.Standing{
			LeagueID:      row.LeagueID,
			ParticipantID: row.ParticipantID,
			Played:        row.Played,
			Wins:          row.Wins,
			Losses:        row.Losses,
			Points:        row.Points,
			Rank:          row.Rank,
		})
	}
	return out, nil
}

// ReplaceByLeague deletes the whole table and inserts standings in one
// statement pair. Outside a league transaction it opens its own.
func (r *LeagueStandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, standings []leaguestanding.Standing) error {
	if _, inTx := ctx.Value(txKey{}).(*sqlx.Tx); inTx {
		return r.replace(ctx, executor(ctx, r.db), leagueID, standings)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx replace league standings")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.replace(ctx, tx, leagueID, standings); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit replace league standings tx")
	}
	return nil
}

func (r *LeagueStandingRepository) replace(ctx context.Context, db sqlx.ExtContext, leagueID string, standings []leaguestanding.Standing) error {
	clearQuery, clearArgs, err := qb.DeleteFrom("league_standings").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build clear league standings query")
	}
	if _, err := db.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return errors.Wrapf(err, "clear league standings league=%s", leagueID)
	}
	if len(standings) == 0 {
		return nil
	}

	insert := qb.InsertInto("league_standings").
		Columns("league_public_id", "participant_id", "played", "wins", "losses", "points", "rank")
	for _, item := range standings {
		insert.Values(leagueID, item.ParticipantID, item.Played, item.Wins, item.Losses, item.Points, item.Rank)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return errors.Wrap(err, "build insert league standings query")
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert league standings league=%s", leagueID)
	}
	return nil
}
