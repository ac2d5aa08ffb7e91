package postgres

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	qb "github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

// ParticipantRepository resolves ids against individuals first and
// partnerships second. Both tables share one id space.
type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) GetByID(ctx context.Context, participantID string) (participant.Participant, bool, error) {
	items, err := r.ListByIDs(ctx, []string{participantID})
	if err != nil {
		return nil, false, err
	}
	if len(items) == 0 {
		return nil, false, nil
	}
	return items[0], true, nil
}

func (r *ParticipantRepository) ListByIDs(ctx context.Context, participantIDs []string) ([]participant.Participant, error) {
	if len(participantIDs) == 0 {
		return []participant.Participant{}, nil
	}
	db := executor(ctx, r.db)

	query, args, err := qb.Select("*").From("individuals").
		Where(qb.AnyOf("public_id", participantIDs), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list individuals query")
	}
	var individuals []individualTableModel
	if err := sqlx.SelectContext(ctx, db, &individuals, query, args...); err != nil {
		return nil, errors.Wrap(err, "list individuals")
	}

	query, args, err = qb.Select("*").From("partnerships").
		Where(qb.AnyOf("public_id", participantIDs), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list partnerships query")
	}
	var partnerships []partnershipTableModel
	if err := sqlx.SelectContext(ctx, db, &partnerships, query, args...); err != nil {
		return nil, errors.Wrap(err, "list partnerships")
	}

	byID := make(map[string]participant.Participant, len(individuals)+len(partnerships))
	for _, row := range partnerships {
		byID[row.PublicID] = participant.Partnership{
			PartnershipID: row.PublicID,
			MemberA:       row.MemberAID,
			MemberB:       row.MemberBID,
			DisplayName:   row.DisplayName,
		}
	}
	for _, row := range individuals {
		byID[row.PublicID] = participant.Individual{IdentityID: row.PublicID, DisplayName: row.DisplayName}
	}

	out := make([]participant.Participant, 0, len(byID))
	for _, item := range byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}
