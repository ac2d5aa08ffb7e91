package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

// BootstrapSeed loads the demo leagues and players into an empty database.
// It does nothing once any league exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return errors.Wrap(err, "count leagues for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(what string, query string, args []any, err error) error {
		if err != nil {
			return errors.Wrapf(err, "build seed %s query", what)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "seed %s", what)
		}
		return nil
	}
	const skipExisting = "ON CONFLICT (public_id) DO NOTHING"

	for _, l := range memory.SeedLeagues() {
		query, args, err := qb.InsertModel("leagues", leagueInsertModel{
			PublicID:        l.ID,
			Name:            l.Name,
			Season:          l.Season,
			Sport:           l.Sport,
			ParticipantKind: string(l.ParticipantKind),
		}, skipExisting)
		if err := exec("league "+l.ID, query, args, err); err != nil {
			return err
		}
	}

	for _, p := range memory.SeedIndividuals() {
		query, args, err := qb.InsertModel("individuals", individualInsertModel{
			PublicID:    p.IdentityID,
			DisplayName: p.DisplayName,
		}, skipExisting)
		if err := exec("individual "+p.IdentityID, query, args, err); err != nil {
			return err
		}
	}

	for _, p := range memory.SeedPartnerships() {
		query, args, err := qb.InsertModel("partnerships", partnershipInsertModel{
			PublicID:    p.PartnershipID,
			MemberAID:   p.MemberA,
			MemberBID:   p.MemberB,
			DisplayName: p.DisplayName,
		}, skipExisting)
		if err := exec("partnership "+p.PartnershipID, query, args, err); err != nil {
			return err
		}
	}

	for leagueID, roster := range memory.SeedRosters() {
		for _, participantID := range roster {
			query, args, err := qb.InsertModel("league_participants", leagueParticipantInsertModel{
				LeagueID:      leagueID,
				ParticipantID: participantID,
			}, "ON CONFLICT (league_public_id, participant_id) DO NOTHING")
			if err := exec("roster "+leagueID+"/"+participantID, query, args, err); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit seed tx")
	}
	return nil
}
