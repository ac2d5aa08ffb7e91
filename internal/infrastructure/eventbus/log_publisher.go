package eventbus

import (
	"context"

	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

// LogPublisher writes every event as a structured log line.
type LogPublisher struct {
	logger *logging.Logger
}

func NewLogPublisher(logger *logging.Logger) *LogPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...event.Event) error {
	for _, item := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event_id", item.ID,
			"event_type", string(item.Type),
			"league_id", item.LeagueID,
			"challenge_id", item.ChallengeID,
			"actor_id", item.ActorID,
			"occurred_at", item.OccurredAt,
			"payload", item.Payload,
		)
	}
	return nil
}
