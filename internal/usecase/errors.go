package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
)

var (
	// ErrInvalidInput marks malformed input the caller can correct.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState marks an operation that is not legal for the current
	// state or actor.
	ErrInvalidState = errors.New("invalid state")
	ErrNotFound     = errors.New("resource not found")
	// ErrConflict marks a lost compare-and-set; callers may re-fetch and
	// retry once.
	ErrConflict              = errors.New("concurrent modification")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

var challengeStateErrors = []error{
	challenge.ErrNotPending,
	challenge.ErrNotAccepted,
	challenge.ErrTooEarly,
	challenge.ErrNotChallenged,
	challenge.ErrNotChallenger,
	challenge.ErrNotPlayer,
	challenge.ErrResultNotPending,
	challenge.ErrSelfApproval,
	challenge.ErrNotOpponent,
}

// classifyError tags domain errors with the use case error kind so callers
// can match either one with errors.Is.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}

	switch {
	case errors.Is(err, challenge.ErrVersionConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case challenge.IsValidationError(err), errors.Is(err, participant.ErrInvalidParticipant):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for _, target := range challengeStateErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}

	return err
}

func isClassified(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrDependencyUnavailable)
}
