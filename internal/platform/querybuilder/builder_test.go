package querybuilder

import (
	"testing"

	"github.com/lib/pq"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "status").
		From("challenges").
		Where(
			Eq("league_public_id", "l1"),
			Or(Eq("challenger_id", "p1"), Eq("challenged_id", "p1")),
			IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, status FROM challenges WHERE league_public_id = $1 AND (challenger_id = $2 OR challenged_id = $3) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "l1" || args[1] != "p1" || args[2] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_AnyOfBindsArray(t *testing.T) {
	query, args, err := Select("*").
		From("individuals").
		Where(AnyOf("public_id", []string{"a", "b"}), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM individuals WHERE public_id = ANY($1) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
	if _, ok := args[0].(*pq.StringArray); !ok {
		t.Fatalf("expected pq string array arg, got %T", args[0])
	}
}

func TestSelectBuilder_EmptyConditionsMatchNothing(t *testing.T) {
	query, args, err := Select("*").From("partnerships").Where(AnyOf("public_id", nil), Or()).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if want := "SELECT * FROM partnerships WHERE 1=0 AND 1=0"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("league_standings").
		Columns("league_public_id", "participant_id").
		Values("l1", "p1").
		Values("l1", "p2").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO league_standings (league_public_id, participant_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "l1" || args[3] != "p2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_CompareAndSet(t *testing.T) {
	query, args, err := Update("challenges").
		Set("status", "accepted").
		Set("version", int64(2)).
		Set("updated_at", "2026-04-01T09:00:00Z").
		Where(
			Eq("public_id", "c1"),
			Eq("version", int64(1)),
			Eq("status", "pending"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE challenges SET status = $1, version = $2, updated_at = $3 WHERE public_id = $4 AND version = $5 AND status = $6"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "c1" || args[5] != "pending" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("challenges").Set("status", "void").ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("league_standings").Where(Eq("league_public_id", "l1")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if want := "DELETE FROM league_standings WHERE league_public_id = $1"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 1 || args[0] != "l1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("league_standings").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		LeagueID string `db:"league_public_id"`
		Points   int    `db:"points"`
		Ignored  string `db:"-"`
		internal string
	}

	query, args, err := InsertModel("league_standings", row{LeagueID: "l1", Points: 3, internal: "x"}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if want := "INSERT INTO league_standings (league_public_id, points) VALUES ($1, $2)"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[1] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("league_standings", (*row)(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("domain_events").Columns("public_id", "event_type").Values("e1").ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}
