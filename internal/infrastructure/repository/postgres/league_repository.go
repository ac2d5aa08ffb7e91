package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	qb "github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select leagues query")
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select leagues")
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, errors.Wrap(err, "build get league by id query")
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, errors.Wrapf(err, "get league by id league=%s", leagueID)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) ListParticipantIDs(ctx context.Context, leagueID string) ([]string, error) {
	query, args, err := qb.Select("participant_id").From("league_participants").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("participant_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list league participants query")
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &ids, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list league participants league=%s", leagueID)
	}
	return ids, nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:              row.PublicID,
		Name:            row.Name,
		Season:          row.Season,
		Sport:           row.Sport,
		ParticipantKind: participant.Kind(row.ParticipantKind),
	}
}
