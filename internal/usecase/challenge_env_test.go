package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Event) error {
	p.mu.Lock()
	p.events = append(p.events, events...)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, item := range p.events {
		out = append(out, item.Type)
	}
	return out
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingRecorder) Record(_ context.Context, events ...event.Event) error {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
	return nil
}

// failingStandingRepository wraps the memory standings and fails every
// replace while fail is set.
type failingStandingRepository struct {
	*memory.LeagueStandingRepository
	fail atomic.Bool
}

func (r *failingStandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, standings []leaguestanding.Standing) error {
	if r.fail.Load() {
		return fmt.Errorf("standings store unavailable")
	}
	return r.LeagueStandingRepository.ReplaceByLeague(ctx, leagueID, standings)
}

type challengeTestEnv struct {
	clock      *fakeClock
	challenges *memory.ChallengeRepository
	standings  *failingStandingRepository
	publisher  *recordingPublisher
	recorder   *recordingRecorder

	challengeService *ChallengeService
	approvalService  *ApprovalService
	rankingService   *RankingService
}

func newChallengeTestEnv(t *testing.T) *challengeTestEnv {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	leagues := memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedRosters())
	participants := memory.NewParticipantRepository(memory.SeedIndividuals(), memory.SeedPartnerships())
	challenges := memory.NewChallengeRepository()
	standings := &failingStandingRepository{LeagueStandingRepository: memory.NewLeagueStandingRepository()}
	tx := memory.NewTransactor()
	publisher := &recordingPublisher{}
	recorder := &recordingRecorder{}
	ids := &sequenceIDGenerator{prefix: "id"}
	logger := logging.NewNop()

	ranking := NewRankingService(leagues, challenges, standings, tx, leaguestanding.DefaultRules(), 2, recorder, publisher, ids, logger)
	ranking.now = clock.Now
	challengeService := NewChallengeService(leagues, participants, challenges, tx, recorder, publisher, ids, logger)
	challengeService.now = clock.Now
	approval := NewApprovalService(participants, challenges, tx, ranking, recorder, publisher, ids, logger)
	approval.now = clock.Now

	return &challengeTestEnv{
		clock:            clock,
		challenges:       challenges,
		standings:        standings,
		publisher:        publisher,
		recorder:         recorder,
		challengeService: challengeService,
		approvalService:  approval,
		rankingService:   ranking,
	}
}

// createAccepted creates a singles challenge from challenger to challenged,
// accepts it and moves the clock past the proposed time.
func (e *challengeTestEnv) createAccepted(t *testing.T, challengerID, challengedID string) challenge.Challenge {
	t.Helper()

	ctx := context.Background()
	created, err := e.challengeService.CreateChallenge(ctx, CreateChallengeInput{
		ActorID:      challengerID,
		ChallengerID: challengerID,
		ChallengedID: challengedID,
		LeagueID:     memory.LeagueIDSpringSingles,
		Location:     "Court 3",
		ProposedAt:   e.clock.Now().Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	accepted, err := e.challengeService.RespondToChallenge(ctx, RespondToChallengeInput{
		ChallengeID: created.ID,
		ActorID:     challengedID,
		Accept:      true,
	})
	if err != nil {
		t.Fatalf("accept challenge: %v", err)
	}
	e.clock.Advance(3 * time.Hour)
	return accepted
}

// playAndApprove records a straight-sets win for winnerID and has the other
// side approve it.
func (e *challengeTestEnv) playAndApprove(t *testing.T, challengerID, challengedID, winnerID string) challenge.Challenge {
	t.Helper()

	ctx := context.Background()
	accepted := e.createAccepted(t, challengerID, challengedID)
	approver := challengedID
	if _, err := e.challengeService.SubmitResult(ctx, SubmitResultInput{
		ChallengeID: accepted.ID,
		ActorID:     challengerID,
		WinnerID:    winnerID,
		Sets:        straightSets(),
	}); err != nil {
		t.Fatalf("submit result: %v", err)
	}
	approved, err := e.approvalService.ResolveResult(ctx, ResolveResultInput{
		ChallengeID: accepted.ID,
		ActorID:     approver,
		Approve:     true,
	})
	if err != nil {
		t.Fatalf("approve result: %v", err)
	}
	return approved
}

func straightSets() []score.Set {
	return []score.Set{{WinnerGames: 6, LoserGames: 4}, {WinnerGames: 6, LoserGames: 3}}
}

func standingByID(rows []leaguestanding.Standing, participantID string) (leaguestanding.Standing, bool) {
	for _, row := range rows {
		if row.ParticipantID == participantID {
			return row, true
		}
	}
	return leaguestanding.Standing{}, false
}
