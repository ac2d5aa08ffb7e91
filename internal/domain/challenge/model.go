package challenge

import (
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// ResultStatus is empty until a result has been submitted.
type ResultStatus string

const (
	ResultStatusNone     ResultStatus = ""
	ResultStatusPending  ResultStatus = "pending"
	ResultStatusApproved ResultStatus = "approved"
	ResultStatusDisputed ResultStatus = "disputed"
)

// Challenge is a proposed match between two participants of one league.
// It is never deleted; approved challenges feed the league standings.
type Challenge struct {
	ID           string
	LeagueID     string
	ChallengerID string
	ChallengedID string
	Kind         participant.Kind
	Location     string
	ProposedAt   time.Time

	Status       Status
	ResultStatus ResultStatus

	WinnerID    string
	WinnerScore []score.Set
	LoserScore  []score.Set
	SubmittedBy string
	ApprovedBy  string

	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RespondedAt *time.Time
	SubmittedAt *time.Time
	ResolvedAt  *time.Time
}

// Expectation is the state a stored challenge must still be in for an
// update to apply.
type Expectation struct {
	Version      int64
	Status       Status
	ResultStatus ResultStatus
}

func (c Challenge) Expect() Expectation {
	return Expectation{
		Version:      c.Version,
		Status:       c.Status,
		ResultStatus: c.ResultStatus,
	}
}

func (e Expectation) Matches(c Challenge) bool {
	return e.Version == c.Version && e.Status == c.Status && e.ResultStatus == c.ResultStatus
}

func (c Challenge) HasResult() bool {
	return c.Status == StatusCompleted && c.WinnerID != ""
}

func (c Challenge) LoserID() string {
	switch c.WinnerID {
	case c.ChallengerID:
		return c.ChallengedID
	case c.ChallengedID:
		return c.ChallengerID
	default:
		return ""
	}
}

func (c Challenge) Involves(participantID string) bool {
	return participantID != "" && (c.ChallengerID == participantID || c.ChallengedID == participantID)
}

// Clone returns a deep copy safe to hand across repository boundaries.
func (c Challenge) Clone() Challenge {
	out := c
	out.WinnerScore = score.Clone(c.WinnerScore)
	out.LoserScore = score.Clone(c.LoserScore)
	out.RespondedAt = cloneTime(c.RespondedAt)
	out.SubmittedAt = cloneTime(c.SubmittedAt)
	out.ResolvedAt = cloneTime(c.ResolvedAt)
	return out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// ListFilter narrows ListByLeague. Zero values match everything.
type ListFilter struct {
	Status        Status
	ResultStatus  ResultStatus
	ParticipantID string
}

func (f ListFilter) Match(c Challenge) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.ResultStatus != "" && c.ResultStatus != f.ResultStatus {
		return false
	}
	if f.ParticipantID != "" && !c.Involves(f.ParticipantID) {
		return false
	}
	return true
}
