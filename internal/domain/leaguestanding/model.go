package leaguestanding

import "math"

// Unranked is the rank given to participants without an approved match.
const Unranked = math.MaxInt32

// DefaultPointsPerWin is used when no rule is configured.
const DefaultPointsPerWin = 3

// Standing represents a league table row for one participant.
type Standing struct {
	LeagueID      string `json:"league_id"`
	ParticipantID string `json:"participant_id"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Points        int    `json:"points"`
	Rank          int    `json:"rank"`
}

func (s Standing) IsRanked() bool {
	return s.Rank != Unranked
}

// Outcome is one approved result reduced to what the table needs.
type Outcome struct {
	ChallengeID string
	WinnerID    string
	LoserID     string
}

// Rules controls how wins translate into points.
type Rules struct {
	PointsPerWin int
}

func DefaultRules() Rules {
	return Rules{PointsPerWin: DefaultPointsPerWin}
}
