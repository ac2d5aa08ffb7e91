package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
)

type challengeSides struct {
	challenger participant.Participant
	challenged participant.Participant
}

type transitionFunc func(ctx context.Context, current challenge.Challenge, sides challengeSides) (challenge.Challenge, error)

// afterUpdateFunc runs in the same transaction once the new challenge
// state is stored. Any error rolls the transition back.
type afterUpdateFunc func(ctx context.Context, next challenge.Challenge) ([]event.Event, error)

// challengeTransitioner applies one state change to a stored challenge
// as a compare-and-set inside the league transaction.
type challengeTransitioner struct {
	challengeRepo   challenge.Repository
	participantRepo participant.Repository
	tx              Transactor
	events          *eventSink
}

func (t *challengeTransitioner) load(ctx context.Context, challengeID string) (challenge.Challenge, error) {
	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge id is required", ErrInvalidInput)
	}

	item, exists, err := t.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	return item, nil
}

func (t *challengeTransitioner) sides(ctx context.Context, c challenge.Challenge) (challengeSides, error) {
	challenger, err := getParticipant(ctx, t.participantRepo, c.ChallengerID)
	if err != nil {
		return challengeSides{}, err
	}
	challenged, err := getParticipant(ctx, t.participantRepo, c.ChallengedID)
	if err != nil {
		return challengeSides{}, err
	}
	return challengeSides{challenger: challenger, challenged: challenged}, nil
}

func (t *challengeTransitioner) apply(
	ctx context.Context,
	challengeID string,
	expectedVersion int64,
	eventType func(next challenge.Challenge) event.Type,
	actorID string,
	transition transitionFunc,
	afterUpdate afterUpdateFunc,
) (challenge.Challenge, error) {
	current, err := t.load(ctx, challengeID)
	if err != nil {
		return challenge.Challenge{}, err
	}

	var (
		next      challenge.Challenge
		published []event.Event
	)
	err = t.tx.InLeagueTx(ctx, current.LeagueID, func(txCtx context.Context) error {
		stored, err := t.load(txCtx, current.ID)
		if err != nil {
			return err
		}
		if expectedVersion > 0 && stored.Version != expectedVersion {
			return fmt.Errorf("%w: challenge=%s expected version %d, stored %d", ErrConflict, stored.ID, expectedVersion, stored.Version)
		}

		sides, err := t.sides(txCtx, stored)
		if err != nil {
			return err
		}

		next, err = transition(txCtx, stored, sides)
		if err != nil {
			return classifyError(err)
		}
		if err := t.challengeRepo.Update(txCtx, stored.Expect(), next); err != nil {
			return classifyError(fmt.Errorf("update challenge %s: %w", stored.ID, err))
		}

		primary, err := t.events.challengeEvent(eventType(next), next, actorID, next.UpdatedAt)
		if err != nil {
			return err
		}
		published = append(published, primary)

		if afterUpdate != nil {
			extra, err := afterUpdate(txCtx, next)
			if err != nil {
				return err
			}
			published = append(published, extra...)
		}

		return t.events.record(txCtx, published)
	})
	if err != nil {
		return challenge.Challenge{}, err
	}

	t.events.publish(ctx, published)
	return next, nil
}

func getParticipant(ctx context.Context, repo participant.Repository, participantID string) (participant.Participant, error) {
	item, exists, err := repo.GetByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("get participant %s: %w", participantID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}
	return item, nil
}
