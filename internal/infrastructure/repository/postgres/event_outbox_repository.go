package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	qb "github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

// EventOutboxRepository stores domain events in the domain_events table,
// inside the league transaction that produced them.
type EventOutboxRepository struct {
	db *sqlx.DB
}

func NewEventOutboxRepository(db *sqlx.DB) *EventOutboxRepository {
	return &EventOutboxRepository{db: db}
}

func (r *EventOutboxRepository) Record(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	insert := qb.InsertInto("domain_events").
		Columns("public_id", "event_type", "league_public_id", "challenge_public_id", "actor_id", "payload", "occurred_at")
	for _, item := range events {
		payload, err := marshalPayload(item.Payload)
		if err != nil {
			return errors.Wrapf(err, "marshal payload event=%s", item.ID)
		}
		insert.Values(
			item.ID,
			string(item.Type),
			item.LeagueID,
			nullString(item.ChallengeID),
			nullString(item.ActorID),
			payload,
			item.OccurredAt.UTC(),
		)
	}

	query, args, err := insert.Suffix("ON CONFLICT (public_id) DO NOTHING").ToSQL()
	if err != nil {
		return errors.Wrap(err, "build insert domain events query")
	}
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert domain events league=%s", events[0].LeagueID)
	}
	return nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
