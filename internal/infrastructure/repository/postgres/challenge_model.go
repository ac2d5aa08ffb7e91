package postgres

import (
	"database/sql"
	"time"
)

type challengeTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	LeagueID        string         `db:"league_public_id"`
	ChallengerID    string         `db:"challenger_id"`
	ChallengedID    string         `db:"challenged_id"`
	ParticipantKind string         `db:"participant_kind"`
	Location        string         `db:"location"`
	ProposedAt      time.Time      `db:"proposed_at"`
	Status          string         `db:"status"`
	ResultStatus    string         `db:"result_status"`
	WinnerID        sql.NullString `db:"winner_id"`
	WinnerScore     []byte         `db:"winner_score"`
	LoserScore      []byte         `db:"loser_score"`
	SubmittedBy     sql.NullString `db:"submitted_by"`
	ApprovedBy      sql.NullString `db:"approved_by"`
	Version         int64          `db:"version"`
	RespondedAt     sql.NullTime   `db:"responded_at"`
	SubmittedAt     sql.NullTime   `db:"submitted_at"`
	ResolvedAt      sql.NullTime   `db:"resolved_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type challengeInsertModel struct {
	PublicID        string    `db:"public_id"`
	LeagueID        string    `db:"league_public_id"`
	ChallengerID    string    `db:"challenger_id"`
	ChallengedID    string    `db:"challenged_id"`
	ParticipantKind string    `db:"participant_kind"`
	Location        string    `db:"location"`
	ProposedAt      time.Time `db:"proposed_at"`
	Status          string    `db:"status"`
	ResultStatus    string    `db:"result_status"`
	Version         int64     `db:"version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
