package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
	qb "github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

type ChallengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(ctx context.Context, c challenge.Challenge) error {
	query, args, err := qb.InsertModel("challenges", challengeInsertModel{
		PublicID:        c.ID,
		LeagueID:        c.LeagueID,
		ChallengerID:    c.ChallengerID,
		ChallengedID:    c.ChallengedID,
		ParticipantKind: string(c.Kind),
		Location:        c.Location,
		ProposedAt:      c.ProposedAt.UTC(),
		Status:          string(c.Status),
		ResultStatus:    string(c.ResultStatus),
		Version:         c.Version,
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       c.UpdatedAt.UTC(),
	}, "")
	if err != nil {
		return errors.Wrap(err, "build insert challenge query")
	}

	if _, err := executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(err, "challenge %s already exists", c.ID)
		}
		return errors.Wrapf(err, "insert challenge challenge=%s", c.ID)
	}
	return nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, challengeID string) (challenge.Challenge, bool, error) {
	query, args, err := qb.Select("*").From("challenges").
		Where(qb.Eq("public_id", challengeID)).
		ToSQL()
	if err != nil {
		return challenge.Challenge{}, false, errors.Wrap(err, "build get challenge query")
	}

	var row challengeTableModel
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return challenge.Challenge{}, false, nil
		}
		return challenge.Challenge{}, false, errors.Wrapf(err, "get challenge challenge=%s", challengeID)
	}

	item, err := challengeFromRow(row)
	if err != nil {
		return challenge.Challenge{}, false, err
	}
	return item, true, nil
}

func (r *ChallengeRepository) ListByLeague(ctx context.Context, leagueID string, filter challenge.ListFilter) ([]challenge.Challenge, error) {
	conditions := []qb.Condition{qb.Eq("league_public_id", leagueID)}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	}
	if filter.ResultStatus != "" {
		conditions = append(conditions, qb.Eq("result_status", string(filter.ResultStatus)))
	}
	if filter.ParticipantID != "" {
		conditions = append(conditions, qb.Or(
			qb.Eq("challenger_id", filter.ParticipantID),
			qb.Eq("challenged_id", filter.ParticipantID),
		))
	}

	query, args, err := qb.Select("*").From("challenges").
		Where(conditions...).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list challenges query")
	}

	var rows []challengeTableModel
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list challenges league=%s", leagueID)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		item, err := challengeFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ChallengeRepository) ListApprovedByLeague(ctx context.Context, leagueID string) ([]challenge.Challenge, error) {
	return r.ListByLeague(ctx, leagueID, challenge.ListFilter{
		Status:       challenge.StatusCompleted,
		ResultStatus: challenge.ResultStatusApproved,
	})
}

func (r *ChallengeRepository) Update(ctx context.Context, expected challenge.Expectation, next challenge.Challenge) error {
	winnerScore, err := marshalSets(next.WinnerScore)
	if err != nil {
		return errors.Wrapf(err, "marshal winner score challenge=%s", next.ID)
	}
	loserScore, err := marshalSets(next.LoserScore)
	if err != nil {
		return errors.Wrapf(err, "marshal loser score challenge=%s", next.ID)
	}

	query, args, err := qb.Update("challenges").
		Set("status", string(next.Status)).
		Set("result_status", string(next.ResultStatus)).
		Set("winner_id", nullString(next.WinnerID)).
		Set("winner_score", winnerScore).
		Set("loser_score", loserScore).
		Set("submitted_by", nullString(next.SubmittedBy)).
		Set("approved_by", nullString(next.ApprovedBy)).
		Set("version", next.Version).
		Set("responded_at", timePtrToNullTime(next.RespondedAt)).
		Set("submitted_at", timePtrToNullTime(next.SubmittedAt)).
		Set("resolved_at", timePtrToNullTime(next.ResolvedAt)).
		Set("updated_at", next.UpdatedAt.UTC()).
		Where(
			qb.Eq("public_id", next.ID),
			qb.Eq("version", expected.Version),
			qb.Eq("status", string(expected.Status)),
			qb.Eq("result_status", string(expected.ResultStatus)),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update challenge query")
	}

	result, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update challenge challenge=%s", next.ID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "read affected rows challenge=%s", next.ID)
	}
	if affected == 0 {
		return errors.Wrapf(challenge.ErrVersionConflict, "challenge %s is no longer at version %d", next.ID, expected.Version)
	}
	return nil
}

func challengeFromRow(row challengeTableModel) (challenge.Challenge, error) {
	winnerScore, err := unmarshalSets(row.WinnerScore)
	if err != nil {
		return challenge.Challenge{}, errors.Wrapf(err, "decode winner score challenge=%s", row.PublicID)
	}
	loserScore, err := unmarshalSets(row.LoserScore)
	if err != nil {
		return challenge.Challenge{}, errors.Wrapf(err, "decode loser score challenge=%s", row.PublicID)
	}

	return challenge.Challenge{
		ID:           row.PublicID,
		LeagueID:     row.LeagueID,
		ChallengerID: row.ChallengerID,
		ChallengedID: row.ChallengedID,
		Kind:         participant.Kind(row.ParticipantKind),
		Location:     row.Location,
		ProposedAt:   row.ProposedAt.UTC(),
		Status:       challenge.Status(row.Status),
		ResultStatus: challenge.ResultStatus(row.ResultStatus),
		WinnerID:     row.WinnerID.String,
		WinnerScore:  winnerScore,
		LoserScore:   loserScore,
		SubmittedBy:  row.SubmittedBy.String,
		ApprovedBy:   row.ApprovedBy.String,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		RespondedAt:  nullTimeToTimePtr(row.RespondedAt),
		SubmittedAt:  nullTimeToTimePtr(row.SubmittedAt),
		ResolvedAt:   nullTimeToTimePtr(row.ResolvedAt),
	}, nil
}

// marshalSets keeps the column NULL when there are no sets.
func marshalSets(sets []score.Set) (sql.NullString, error) {
	if len(sets) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := jsoniter.Marshal(sets)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalSets(raw []byte) ([]score.Set, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var sets []score.Set
	if err := jsoniter.Unmarshal(raw, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
