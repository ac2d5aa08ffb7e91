package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	idgen "github.com/riskibarqy/challenge-league/internal/platform/id"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

// eventSink builds domain events, records them inside the league
// transaction and publishes them once the transaction has committed.
type eventSink struct {
	recorder  event.Recorder
	publisher event.Publisher
	idGen     idgen.Generator
	logger    *logging.Logger
}

func newEventSink(recorder event.Recorder, publisher event.Publisher, idGen idgen.Generator, logger *logging.Logger) *eventSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &eventSink{
		recorder:  recorder,
		publisher: publisher,
		idGen:     idGen,
		logger:    logger,
	}
}

func (s *eventSink) challengeEvent(eventType event.Type, c challenge.Challenge, actorID string, at time.Time) (event.Event, error) {
	payload := map[string]any{
		"status":        string(c.Status),
		"challenger_id": c.ChallengerID,
		"challenged_id": c.ChallengedID,
		"version":       c.Version,
	}
	if c.ResultStatus != challenge.ResultStatusNone {
		payload["result_status"] = string(c.ResultStatus)
	}
	if c.WinnerID != "" {
		payload["winner_id"] = c.WinnerID
		payload["loser_id"] = c.LoserID()
	}
	return s.newEvent(eventType, c.LeagueID, c.ID, actorID, at, payload)
}

func (s *eventSink) newEvent(eventType event.Type, leagueID, challengeID, actorID string, at time.Time, payload map[string]any) (event.Event, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return event.Event{}, fmt.Errorf("generate event id: %w", err)
	}
	return event.Event{
		ID:          id,
		Type:        eventType,
		LeagueID:    leagueID,
		ChallengeID: challengeID,
		ActorID:     actorID,
		OccurredAt:  at.UTC(),
		Payload:     payload,
	}, nil
}

func (s *eventSink) record(ctx context.Context, events []event.Event) error {
	if s == nil || s.recorder == nil || len(events) == 0 {
		return nil
	}
	if err := s.recorder.Record(ctx, events...); err != nil {
		return fmt.Errorf("record domain events: %w", err)
	}
	return nil
}

// publish never fails the caller; the state change is already committed.
func (s *eventSink) publish(ctx context.Context, events []event.Event) {
	if s == nil || s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.WarnContext(ctx, "publish domain events failed",
			"league_id", events[0].LeagueID,
			"event_count", len(events),
			"error", err,
		)
	}
}
