package event

import (
	"context"
	"time"
)

type Type string

const (
	TypeChallengeCreated  Type = "challenge.created"
	TypeChallengeAccepted Type = "challenge.accepted"
	TypeChallengeRejected Type = "challenge.rejected"
	TypeResultSubmitted   Type = "result.submitted"
	TypeResultApproved    Type = "result.approved"
	TypeResultDisputed    Type = "result.disputed"
	TypeStandingsUpdated  Type = "standings.updated"
)

// Event is a fact about a league that other subsystems may react to.
type Event struct {
	ID          string         `json:"id"`
	Type        Type           `json:"type"`
	LeagueID    string         `json:"league_id"`
	ChallengeID string         `json:"challenge_id,omitempty"`
	ActorID     string         `json:"actor_id,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// Publisher hands events to whoever listens. Implementations must not
// block on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Recorder persists events alongside the state change that produced them.
type Recorder interface {
	Record(ctx context.Context, events ...Event) error
}
