package challenge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
)

// Validation failures. The caller can fix the input and try again.
var (
	ErrMissingField         = errors.New("required field is missing")
	ErrProposedInPast       = errors.New("proposed time is in the past")
	ErrSelfChallenge        = errors.New("participant cannot challenge itself")
	ErrKindMismatch         = errors.New("participants must be of the same kind")
	ErrWinnerNotParticipant = errors.New("winner is not a participant of the challenge")
)

// State failures. The operation is not legal for the challenge as stored.
var (
	ErrNotPending        = errors.New("challenge is not pending")
	ErrNotAccepted       = errors.New("challenge is not accepted")
	ErrTooEarly          = errors.New("proposed time has not elapsed")
	ErrNotChallenged     = errors.New("actor is not a member of the challenged participant")
	ErrNotChallenger     = errors.New("actor is not a member of the challenger participant")
	ErrNotPlayer         = errors.New("actor is not a member of either participant")
	ErrResultNotPending  = errors.New("result is not pending confirmation")
	ErrSelfApproval      = errors.New("submitter side cannot resolve its own result")
	ErrNotOpponent       = errors.New("actor is not a member of the opposing participant")
	ErrParticipantLookup = errors.New("participant does not match challenge")
)

// ErrVersionConflict is returned by repositories when the stored challenge
// no longer matches the expected state.
var ErrVersionConflict = errors.New("challenge was modified concurrently")

// IsValidationError reports whether err is an input problem.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrProposedInPast) ||
		errors.Is(err, ErrSelfChallenge) ||
		errors.Is(err, ErrKindMismatch) ||
		errors.Is(err, ErrWinnerNotParticipant) ||
		errors.Is(err, score.ErrInvalidSet) ||
		errors.Is(err, score.ErrSetCount)
}

// NewParams holds everything needed to open a challenge.
type NewParams struct {
	ID         string
	LeagueID   string
	Challenger participant.Participant
	Challenged participant.Participant
	Location   string
	ProposedAt time.Time
}

// New opens a pending challenge.
func New(p NewParams, now time.Time) (Challenge, error) {
	id := strings.TrimSpace(p.ID)
	leagueID := strings.TrimSpace(p.LeagueID)
	location := strings.TrimSpace(p.Location)

	switch {
	case id == "":
		return Challenge{}, fmt.Errorf("%w: id", ErrMissingField)
	case leagueID == "":
		return Challenge{}, fmt.Errorf("%w: league_id", ErrMissingField)
	case p.Challenger == nil || strings.TrimSpace(p.Challenger.ID()) == "":
		return Challenge{}, fmt.Errorf("%w: challenger_id", ErrMissingField)
	case p.Challenged == nil || strings.TrimSpace(p.Challenged.ID()) == "":
		return Challenge{}, fmt.Errorf("%w: challenged_id", ErrMissingField)
	case location == "":
		return Challenge{}, fmt.Errorf("%w: location", ErrMissingField)
	case p.ProposedAt.IsZero():
		return Challenge{}, fmt.Errorf("%w: proposed_at", ErrMissingField)
	}

	if p.ProposedAt.Before(now) {
		return Challenge{}, fmt.Errorf("%w: %s is before %s", ErrProposedInPast, p.ProposedAt.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	if p.Challenger.Equals(p.Challenged) || participant.SharesMember(p.Challenger, p.Challenged) {
		return Challenge{}, ErrSelfChallenge
	}
	if p.Challenger.Kind() != p.Challenged.Kind() {
		return Challenge{}, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, p.Challenger.Kind(), p.Challenged.Kind())
	}

	return Challenge{
		ID:           id,
		LeagueID:     leagueID,
		ChallengerID: p.Challenger.ID(),
		ChallengedID: p.Challenged.ID(),
		Kind:         p.Challenger.Kind(),
		Location:     location,
		ProposedAt:   p.ProposedAt.UTC(),
		Status:       StatusPending,
		ResultStatus: ResultStatusNone,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Respond accepts or rejects a pending challenge on behalf of the
// challenged side.
func (c Challenge) Respond(actorID string, challenged participant.Participant, accept bool, now time.Time) (Challenge, error) {
	if c.Status != StatusPending {
		return Challenge{}, fmt.Errorf("%w: status=%s", ErrNotPending, c.Status)
	}
	if challenged == nil || challenged.ID() != c.ChallengedID {
		return Challenge{}, ErrParticipantLookup
	}
	if !challenged.HasMember(actorID) {
		return Challenge{}, fmt.Errorf("%w: actor=%s", ErrNotChallenged, actorID)
	}

	next := c.Clone()
	next.Status = StatusRejected
	if accept {
		next.Status = StatusAccepted
	}
	next.RespondedAt = &now
	next.touch(now)
	return next, nil
}

// SubmitResult records the reported score and completes the challenge.
// Sets are given from the winner's side.
func (c Challenge) SubmitResult(actorID string, challenger, challenged participant.Participant, winnerID string, sets []score.Set, now time.Time) (Challenge, error) {
	if c.Status != StatusAccepted {
		return Challenge{}, fmt.Errorf("%w: status=%s", ErrNotAccepted, c.Status)
	}
	if now.Before(c.ProposedAt) {
		return Challenge{}, fmt.Errorf("%w: proposed_at=%s", ErrTooEarly, c.ProposedAt.UTC().Format(time.RFC3339))
	}
	if err := c.checkSides(challenger, challenged); err != nil {
		return Challenge{}, err
	}
	if !challenger.HasMember(actorID) && !challenged.HasMember(actorID) {
		return Challenge{}, fmt.Errorf("%w: actor=%s", ErrNotPlayer, actorID)
	}

	if err := score.ValidateMatch(sets); err != nil {
		return Challenge{}, err
	}
	winnerID = strings.TrimSpace(winnerID)
	if winnerID != c.ChallengerID && winnerID != c.ChallengedID {
		return Challenge{}, fmt.Errorf("%w: winner=%s", ErrWinnerNotParticipant, winnerID)
	}

	next := c.Clone()
	next.Status = StatusCompleted
	next.ResultStatus = ResultStatusPending
	next.WinnerID = winnerID
	next.WinnerScore = score.Clone(sets)
	next.LoserScore = score.Mirror(sets)
	next.SubmittedBy = strings.TrimSpace(actorID)
	next.SubmittedAt = &now
	next.touch(now)
	return next, nil
}

// Resolve confirms or disputes a pending result. Only a member of the side
// opposite the submitter may do so.
func (c Challenge) Resolve(actorID string, challenger, challenged participant.Participant, approve bool, now time.Time) (Challenge, error) {
	if c.ResultStatus != ResultStatusPending {
		return Challenge{}, fmt.Errorf("%w: result_status=%s", ErrResultNotPending, c.ResultStatus)
	}
	if err := c.checkSides(challenger, challenged); err != nil {
		return Challenge{}, err
	}

	submitterSide, opposing := challenger, challenged
	if !challenger.HasMember(c.SubmittedBy) {
		submitterSide, opposing = challenged, challenger
	}
	if submitterSide.HasMember(actorID) {
		return Challenge{}, fmt.Errorf("%w: actor=%s", ErrSelfApproval, actorID)
	}
	if !opposing.HasMember(actorID) {
		return Challenge{}, fmt.Errorf("%w: actor=%s", ErrNotOpponent, actorID)
	}

	next := c.Clone()
	next.ResultStatus = ResultStatusDisputed
	if approve {
		next.ResultStatus = ResultStatusApproved
	}
	next.ApprovedBy = strings.TrimSpace(actorID)
	next.ResolvedAt = &now
	next.touch(now)
	return next, nil
}

func (c Challenge) checkSides(challenger, challenged participant.Participant) error {
	if challenger == nil || challenged == nil {
		return ErrParticipantLookup
	}
	if challenger.ID() != c.ChallengerID || challenged.ID() != c.ChallengedID {
		return fmt.Errorf("%w: got %s/%s", ErrParticipantLookup, challenger.ID(), challenged.ID())
	}
	return nil
}

func (c *Challenge) touch(now time.Time) {
	c.Version++
	c.UpdatedAt = now
}
