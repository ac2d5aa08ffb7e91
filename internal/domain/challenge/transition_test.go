package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
)

var (
	testNow   = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	alice     = participant.Individual{IdentityID: "alice"}
	bob       = participant.Individual{IdentityID: "bob"}
	duoAB     = participant.Partnership{PartnershipID: "duo-ab", MemberA: "ann", MemberB: "ben"}
	duoCD     = participant.Partnership{PartnershipID: "duo-cd", MemberA: "cat", MemberB: "dan"}
	straights = []score.Set{{WinnerGames: 6, LoserGames: 4}, {WinnerGames: 6, LoserGames: 3}}
)

func newPending(t *testing.T, challenger, challenged participant.Participant) Challenge {
	t.Helper()

	c, err := New(NewParams{
		ID:         "ch-1",
		LeagueID:   "league-1",
		Challenger: challenger,
		Challenged: challenged,
		Location:   "Court 3",
		ProposedAt: testNow.Add(2 * time.Hour),
	}, testNow)
	if err != nil {
		t.Fatalf("new challenge: %v", err)
	}
	return c
}

func accepted(t *testing.T, challenger, challenged participant.Participant) Challenge {
	t.Helper()

	c := newPending(t, challenger, challenged)
	next, err := c.Respond(challenged.Members()[0], challenged, true, testNow)
	if err != nil {
		t.Fatalf("accept challenge: %v", err)
	}
	return next
}

func TestNew(t *testing.T) {
	t.Parallel()

	base := NewParams{
		ID:         "ch-1",
		LeagueID:   "league-1",
		Challenger: alice,
		Challenged: bob,
		Location:   "Court 3",
		ProposedAt: testNow.Add(time.Hour),
	}

	tests := []struct {
		name    string
		mutate  func(p *NewParams)
		wantErr error
	}{
		{name: "valid", mutate: func(_ *NewParams) {}},
		{name: "missing location", mutate: func(p *NewParams) { p.Location = "  " }, wantErr: ErrMissingField},
		{name: "missing time", mutate: func(p *NewParams) { p.ProposedAt = time.Time{} }, wantErr: ErrMissingField},
		{name: "missing challenged", mutate: func(p *NewParams) { p.Challenged = nil }, wantErr: ErrMissingField},
		{name: "past time", mutate: func(p *NewParams) { p.ProposedAt = testNow.Add(-time.Minute) }, wantErr: ErrProposedInPast},
		{name: "self challenge", mutate: func(p *NewParams) { p.Challenged = alice }, wantErr: ErrSelfChallenge},
		{name: "kind mismatch", mutate: func(p *NewParams) { p.Challenged = duoCD }, wantErr: ErrKindMismatch},
		{
			name: "partnerships sharing a player",
			mutate: func(p *NewParams) {
				p.Challenger = duoAB
				p.Challenged = participant.Partnership{PartnershipID: "duo-ax", MemberA: "ann", MemberB: "xav"}
			},
			wantErr: ErrSelfChallenge,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := base
			tc.mutate(&params)
			got, err := New(params, testNow)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != StatusPending || got.ResultStatus != ResultStatusNone {
				t.Fatalf("unexpected initial state: %s/%q", got.Status, got.ResultStatus)
			}
			if got.Version != 1 {
				t.Fatalf("expected version 1, got %d", got.Version)
			}
		})
	}
}

func TestRespond(t *testing.T) {
	t.Parallel()

	t.Run("challenged accepts", func(t *testing.T) {
		t.Parallel()
		c := newPending(t, alice, bob)
		next, err := c.Respond("bob", bob, true, testNow)
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if next.Status != StatusAccepted || next.Version != c.Version+1 || next.RespondedAt == nil {
			t.Fatalf("unexpected challenge after accept: %+v", next)
		}
		if c.Status != StatusPending {
			t.Fatalf("respond must not modify receiver")
		}
	})

	t.Run("partner rejects", func(t *testing.T) {
		t.Parallel()
		c := newPending(t, duoAB, duoCD)
		next, err := c.Respond("dan", duoCD, false, testNow)
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if next.Status != StatusRejected {
			t.Fatalf("expected rejected, got %s", next.Status)
		}
	})

	t.Run("challenger cannot respond", func(t *testing.T) {
		t.Parallel()
		c := newPending(t, alice, bob)
		if _, err := c.Respond("alice", bob, true, testNow); !errors.Is(err, ErrNotChallenged) {
			t.Fatalf("expected ErrNotChallenged, got %v", err)
		}
	})

	t.Run("already answered", func(t *testing.T) {
		t.Parallel()
		c := accepted(t, alice, bob)
		if _, err := c.Respond("bob", bob, false, testNow); !errors.Is(err, ErrNotPending) {
			t.Fatalf("expected ErrNotPending, got %v", err)
		}
	})
}

func TestSubmitResult(t *testing.T) {
	t.Parallel()

	after := testNow.Add(3 * time.Hour)

	t.Run("before proposed time", func(t *testing.T) {
		t.Parallel()
		c := accepted(t, alice, bob)
		_, err := c.SubmitResult("alice", alice, bob, "alice", straights, testNow.Add(time.Hour))
		if !errors.Is(err, ErrTooEarly) {
			t.Fatalf("expected ErrTooEarly, got %v", err)
		}
	})

	t.Run("not accepted", func(t *testing.T) {
		t.Parallel()
		c := newPending(t, alice, bob)
		_, err := c.SubmitResult("alice", alice, bob, "alice", straights, after)
		if !errors.Is(err, ErrNotAccepted) {
			t.Fatalf("expected ErrNotAccepted, got %v", err)
		}
	})

	t.Run("bad set", func(t *testing.T) {
		t.Parallel()
		c := accepted(t, alice, bob)
		sets := []score.Set{{WinnerGames: 6, LoserGames: 4}, {WinnerGames: 7, LoserGames: 5}}
		_, err := c.SubmitResult("alice", alice, bob, "alice", sets, after)
		if !errors.Is(err, score.ErrInvalidSet) || !IsValidationError(err) {
			t.Fatalf("expected invalid set validation error, got %v", err)
		}
	})

	t.Run("winner outside challenge", func(t *testing.T) {
		t.Parallel()
		c := accepted(t, alice, bob)
		_, err := c.SubmitResult("alice", alice, bob, "carol", straights, after)
		if !errors.Is(err, ErrWinnerNotParticipant) {
			t.Fatalf("expected ErrWinnerNotParticipant, got %v", err)
		}
	})

	t.Run("outsider cannot submit", func(t *testing.T) {
		t.Parallel()
		c := accepted(t, alice, bob)
		_, err := c.SubmitResult("mallory", alice, bob, "alice", straights, after)
		if !errors.Is(err, ErrNotPlayer) {
			t.Fatalf("expected ErrNotPlayer, got %v", err)
		}
	})

	t.Run("completes with pending result", func(t *testing.T) {
		t.Parallel()
		c := accepted(t, duoAB, duoCD)
		next, err := c.SubmitResult("cat", duoAB, duoCD, "duo-cd", straights, after)
		if err != nil {
			t.Fatalf("submit result: %v", err)
		}
		if next.Status != StatusCompleted || next.ResultStatus != ResultStatusPending {
			t.Fatalf("unexpected state: %s/%s", next.Status, next.ResultStatus)
		}
		if next.SubmittedBy != "cat" || next.WinnerID != "duo-cd" || next.LoserID() != "duo-ab" {
			t.Fatalf("unexpected result fields: %+v", next)
		}
		if next.LoserScore[0].WinnerGames != 4 || next.LoserScore[0].LoserGames != 6 {
			t.Fatalf("unexpected loser score: %+v", next.LoserScore)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	after := testNow.Add(3 * time.Hour)
	submitted := func(t *testing.T) Challenge {
		t.Helper()
		c := accepted(t, duoAB, duoCD)
		next, err := c.SubmitResult("ann", duoAB, duoCD, "duo-ab", straights, after)
		if err != nil {
			t.Fatalf("submit result: %v", err)
		}
		return next
	}

	tests := []struct {
		name       string
		actor      string
		approve    bool
		wantErr    error
		wantStatus ResultStatus
	}{
		{name: "submitter approves own result", actor: "ann", approve: true, wantErr: ErrSelfApproval},
		{name: "submitter partner approves", actor: "ben", approve: true, wantErr: ErrSelfApproval},
		{name: "outsider", actor: "zed", approve: true, wantErr: ErrNotOpponent},
		{name: "opponent approves", actor: "cat", approve: true, wantStatus: ResultStatusApproved},
		{name: "opponent disputes", actor: "dan", approve: false, wantStatus: ResultStatusDisputed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := submitted(t)
			next, err := c.Resolve(tc.actor, duoAB, duoCD, tc.approve, after)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if next.ResultStatus != tc.wantStatus || next.ApprovedBy != tc.actor {
				t.Fatalf("unexpected resolution: %s by %s", next.ResultStatus, next.ApprovedBy)
			}
		})
	}

	t.Run("terminal after resolution", func(t *testing.T) {
		t.Parallel()
		c := submitted(t)
		disputed, err := c.Resolve("cat", duoAB, duoCD, false, after)
		if err != nil {
			t.Fatalf("dispute: %v", err)
		}
		if _, err := disputed.Resolve("dan", duoAB, duoCD, true, after); !errors.Is(err, ErrResultNotPending) {
			t.Fatalf("expected ErrResultNotPending, got %v", err)
		}
	})
}

func TestExpectationMatches(t *testing.T) {
	t.Parallel()

	c := newPending(t, alice, bob)
	expected := c.Expect()
	next, err := c.Respond("bob", bob, true, testNow)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}

	if !expected.Matches(c) {
		t.Fatalf("expected original to match its own expectation")
	}
	if expected.Matches(next) {
		t.Fatalf("expected transitioned challenge to no longer match")
	}
}
