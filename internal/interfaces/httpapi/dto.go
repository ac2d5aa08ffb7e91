package httpapi

import (
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
)

type createChallengeRequest struct {
	LeagueID     string    `json:"league_id" validate:"required,max=64"`
	ChallengerID string    `json:"challenger_id" validate:"required,max=64"`
	ChallengedID string    `json:"challenged_id" validate:"required,max=64,nefield=ChallengerID"`
	Location     string    `json:"location" validate:"required,max=200"`
	ProposedAt   time.Time `json:"proposed_at" validate:"required"`
}

type respondToChallengeRequest struct {
	Accept          *bool `json:"accept" validate:"required"`
	ExpectedVersion int64 `json:"expected_version" validate:"gte=0"`
}

type setRequest struct {
	WinnerGames int  `json:"winner_games" validate:"gte=0,lte=7"`
	LoserGames  int  `json:"loser_games" validate:"gte=0,lte=7"`
	Tiebreak    bool `json:"tiebreak"`
}

type submitResultRequest struct {
	WinnerID        string       `json:"winner_id" validate:"required,max=64"`
	Sets            []setRequest `json:"sets" validate:"required,min=1,max=3,dive"`
	ExpectedVersion int64        `json:"expected_version" validate:"gte=0"`
}

type resolveResultRequest struct {
	Approve         *bool `json:"approve" validate:"required"`
	ExpectedVersion int64 `json:"expected_version" validate:"gte=0"`
}

type recomputeRankingsRequest struct {
	LeagueID string `json:"league_id" validate:"omitempty,max=64"`
}

type leagueDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Season          string `json:"season"`
	Sport           string `json:"sport"`
	ParticipantKind string `json:"participant_kind"`
}

type participantDTO struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type setDTO struct {
	WinnerGames int  `json:"winner_games"`
	LoserGames  int  `json:"loser_games"`
	Tiebreak    bool `json:"tiebreak"`
}

type challengeDTO struct {
	ID              string     `json:"id"`
	LeagueID        string     `json:"league_id"`
	ChallengerID    string     `json:"challenger_id"`
	ChallengedID    string     `json:"challenged_id"`
	ParticipantKind string     `json:"participant_kind"`
	Location        string     `json:"location"`
	ProposedAt      time.Time  `json:"proposed_at"`
	Status          string     `json:"status"`
	ResultStatus    string     `json:"result_status,omitempty"`
	WinnerID        string     `json:"winner_id,omitempty"`
	LoserID         string     `json:"loser_id,omitempty"`
	WinnerScore     []setDTO   `json:"winner_score,omitempty"`
	LoserScore      []setDTO   `json:"loser_score,omitempty"`
	SubmittedBy     string     `json:"submitted_by,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// standingDTO reports rank as null for participants without an approved
// match.
type standingDTO struct {
	ParticipantID string `json:"participant_id"`
	Rank          *int   `json:"rank"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Points        int    `json:"points"`
}

type rankingsDTO struct {
	LeagueID  string        `json:"league_id"`
	Standings []standingDTO `json:"standings"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:              v.ID,
		Name:            v.Name,
		Season:          v.Season,
		Sport:           v.Sport,
		ParticipantKind: string(v.ParticipantKind),
	}
}

func participantToDTO(v participant.Participant) participantDTO {
	return participantDTO{
		ID:      v.ID(),
		Kind:    string(v.Kind()),
		Name:    v.Name(),
		Members: v.Members(),
	}
}

func setsToDTO(sets []score.Set) []setDTO {
	if len(sets) == 0 {
		return nil
	}
	out := make([]setDTO, 0, len(sets))
	for _, s := range sets {
		out = append(out, setDTO{WinnerGames: s.WinnerGames, LoserGames: s.LoserGames, Tiebreak: s.Tiebreak})
	}
	return out
}

func setsFromRequest(sets []setRequest) []score.Set {
	out := make([]score.Set, 0, len(sets))
	for _, s := range sets {
		out = append(out, score.Set{WinnerGames: s.WinnerGames, LoserGames: s.LoserGames, Tiebreak: s.Tiebreak})
	}
	return out
}

func challengeToDTO(v challenge.Challenge) challengeDTO {
	return challengeDTO{
		ID:              v.ID,
		LeagueID:        v.LeagueID,
		ChallengerID:    v.ChallengerID,
		ChallengedID:    v.ChallengedID,
		ParticipantKind: string(v.Kind),
		Location:        v.Location,
		ProposedAt:      v.ProposedAt,
		Status:          string(v.Status),
		ResultStatus:    string(v.ResultStatus),
		WinnerID:        v.WinnerID,
		LoserID:         v.LoserID(),
		WinnerScore:     setsToDTO(v.WinnerScore),
		LoserScore:      setsToDTO(v.LoserScore),
		SubmittedBy:     v.SubmittedBy,
		ApprovedBy:      v.ApprovedBy,
		Version:         v.Version,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		RespondedAt:     v.RespondedAt,
		SubmittedAt:     v.SubmittedAt,
		ResolvedAt:      v.ResolvedAt,
	}
}

func challengesToDTO(items []challenge.Challenge) []challengeDTO {
	out := make([]challengeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, challengeToDTO(item))
	}
	return out
}

func rankingsToDTO(leagueID string, table []leaguestanding.Standing) rankingsDTO {
	out := rankingsDTO{LeagueID: leagueID, Standings: make([]standingDTO, 0, len(table))}
	for _, row := range table {
		item := standingDTO{
			ParticipantID: row.ParticipantID,
			Played:        row.Played,
			Wins:          row.Wins,
			Losses:        row.Losses,
			Points:        row.Points,
		}
		if row.IsRanked() {
			rank := row.Rank
			item.Rank = &rank
		}
		out.Standings = append(out.Standings, item)
	}
	return out
}
