package postgres

import "time"

type leagueTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	Name            string     `db:"name"`
	Season          string     `db:"season"`
	Sport           string     `db:"sport"`
	ParticipantKind string     `db:"participant_kind"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID        string `db:"public_id"`
	Name            string `db:"name"`
	Season          string `db:"season"`
	Sport           string `db:"sport"`
	ParticipantKind string `db:"participant_kind"`
}

type leagueParticipantInsertModel struct {
	LeagueID      string `db:"league_public_id"`
	ParticipantID string `db:"participant_id"`
}
