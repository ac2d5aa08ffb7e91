package postgres

import "time"

type leagueStandingTableModel struct {
	ID            int64     `db:"id"`
	LeagueID      string    `db:"league_public_id"`
	ParticipantID string    `db:"participant_id"`
	Played        int       `db:"played"`
	Wins          int       `db:"wins"`
	Losses        int       `db:"losses"`
	Points        int       `db:"points"`
	Rank          int       `db:"rank"`
	CreatedAt     time.Time `db:"created_at"`
}
