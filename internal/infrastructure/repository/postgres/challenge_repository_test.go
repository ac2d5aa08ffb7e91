package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
)

func TestMarshalSets(t *testing.T) {
	empty, err := marshalSets(nil)
	if err != nil {
		t.Fatalf("marshal empty sets: %v", err)
	}
	if empty.Valid {
		t.Fatalf("expected NULL for no sets, got %q", empty.String)
	}

	got, err := marshalSets([]score.Set{{WinnerGames: 7, LoserGames: 6, Tiebreak: true}})
	if err != nil {
		t.Fatalf("marshal sets: %v", err)
	}
	want := `[{"winner_games":7,"loser_games":6,"tiebreak":true}]`
	if !got.Valid || got.String != want {
		t.Fatalf("unexpected json:\nwant: %s\ngot:  %s", want, got.String)
	}
}

func TestChallengeFromRow(t *testing.T) {
	created := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	row := challengeTableModel{
		PublicID:        "c1",
		LeagueID:        "spring-singles-2026",
		ChallengerID:    "user-alice",
		ChallengedID:    "user-bima",
		ParticipantKind: "individual",
		Location:        "Court 1",
		ProposedAt:      created.Add(time.Hour),
		Status:          "completed",
		ResultStatus:    "pending",
		WinnerID:        nullString("user-alice"),
		WinnerScore:     []byte(`[{"winner_games":6,"loser_games":4,"tiebreak":false},{"winner_games":6,"loser_games":3,"tiebreak":false}]`),
		LoserScore:      []byte(`[{"winner_games":4,"loser_games":6,"tiebreak":false},{"winner_games":3,"loser_games":6,"tiebreak":false}]`),
		SubmittedBy:     nullString("user-alice"),
		Version:         3,
		SubmittedAt:     timePtrToNullTime(&created),
		CreatedAt:       created,
		UpdatedAt:       created,
	}

	got, err := challengeFromRow(row)
	if err != nil {
		t.Fatalf("challenge from row: %v", err)
	}
	if got.Status != challenge.StatusCompleted || got.ResultStatus != challenge.ResultStatusPending {
		t.Fatalf("unexpected status: %s/%s", got.Status, got.ResultStatus)
	}
	if len(got.WinnerScore) != 2 || got.WinnerScore[1].LoserGames != 3 {
		t.Fatalf("unexpected winner score: %+v", got.WinnerScore)
	}
	if got.ApprovedBy != "" || got.ResolvedAt != nil {
		t.Fatalf("expected unresolved challenge, got approver=%q resolved=%v", got.ApprovedBy, got.ResolvedAt)
	}
	if got.LoserID() != "user-bima" {
		t.Fatalf("unexpected loser: %s", got.LoserID())
	}
}

func TestChallengeFromRow_RejectsCorruptScore(t *testing.T) {
	_, err := challengeFromRow(challengeTableModel{PublicID: "c1", WinnerScore: []byte(`{"oops"`)})
	if err == nil {
		t.Fatalf("expected decode error")
	}
}
