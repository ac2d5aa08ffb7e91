package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	idgen "github.com/riskibarqy/challenge-league/internal/platform/id"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

const defaultRecomputeWorkers = 4

const (
	recomputeStatusSuccess = "success"
	recomputeStatusFailed  = "failed"
)

type RecomputeLeagueResult struct {
	LeagueID     string `json:"league_id"`
	Participants int    `json:"participants"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	DurationMs   int64  `json:"duration_ms"`
}

type RecomputeAllResult struct {
	Total     int                     `json:"total"`
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
	Leagues   []RecomputeLeagueResult `json:"leagues"`
}

// standingCacheInvalidator is implemented by cached standing repositories.
type standingCacheInvalidator interface {
	InvalidateLeague(ctx context.Context, leagueID string)
}

type RankingService struct {
	leagueRepo    league.Repository
	challengeRepo challenge.Repository
	standingRepo  leaguestanding.Repository
	tx            Transactor
	events        *eventSink
	rules         leaguestanding.Rules
	workers       int
	logger        *logging.Logger
	now           func() time.Time
}

func NewRankingService(
	leagueRepo league.Repository,
	challengeRepo challenge.Repository,
	standingRepo leaguestanding.Repository,
	tx Transactor,
	rules leaguestanding.Rules,
	workers int,
	recorder event.Recorder,
	publisher event.Publisher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultRecomputeWorkers
	}
	if rules.PointsPerWin <= 0 {
		rules = leaguestanding.DefaultRules()
	}

	return &RankingService{
		leagueRepo:    leagueRepo,
		challengeRepo: challengeRepo,
		standingRepo:  standingRepo,
		tx:            tx,
		events:        newEventSink(recorder, publisher, idGen, logger),
		rules:         rules,
		workers:       workers,
		logger:        logger,
		now:           time.Now,
	}
}

// GetRankings returns the stored table of a league. A league that has never
// been computed, or whose roster gained members since, is recomputed and
// stored on read.
func (s *RankingService) GetRankings(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetRankings", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, err := ensureLeague(ctx, s.leagueRepo, leagueID); err != nil {
		return nil, err
	}

	items, err := s.standingRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings by league: %w", err)
	}
	if len(items) > 0 {
		roster, err := s.leagueRepo.ListParticipantIDs(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("list league roster: %w", err)
		}
		if coversRoster(items, roster) {
			return items, nil
		}
	}

	return s.Recompute(ctx, leagueID)
}

func coversRoster(table []leaguestanding.Standing, roster []string) bool {
	seen := make(map[string]struct{}, len(table))
	for _, row := range table {
		seen[row.ParticipantID] = struct{}{}
	}
	for _, participantID := range roster {
		participantID = strings.TrimSpace(participantID)
		if participantID == "" {
			continue
		}
		if _, ok := seen[participantID]; !ok {
			return false
		}
	}
	return true
}

// Recompute rebuilds and replaces the whole table of a league.
func (s *RankingService) Recompute(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Recompute", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, err := ensureLeague(ctx, s.leagueRepo, leagueID); err != nil {
		return nil, err
	}

	var (
		out    []leaguestanding.Standing
		events []event.Event
	)
	err := s.tx.InLeagueTx(ctx, leagueID, func(txCtx context.Context) error {
		var err error
		out, events, err = s.recomputeInTx(txCtx, leagueID)
		if err != nil {
			return err
		}
		return s.events.record(txCtx, events)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, leagueID, events)
	return out, nil
}

// recomputeInTx must run inside the league transaction.
func (s *RankingService) recomputeInTx(ctx context.Context, leagueID string) ([]leaguestanding.Standing, []event.Event, error) {
	roster, err := s.leagueRepo.ListParticipantIDs(ctx, leagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("list league roster: %w", err)
	}
	approved, err := s.challengeRepo.ListApprovedByLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("list approved challenges: %w", err)
	}

	outcomes := make([]leaguestanding.Outcome, 0, len(approved))
	for _, item := range approved {
		if item.ResultStatus != challenge.ResultStatusApproved || !item.HasResult() {
			continue
		}
		outcomes = append(outcomes, leaguestanding.Outcome{
			ChallengeID: item.ID,
			WinnerID:    item.WinnerID,
			LoserID:     item.LoserID(),
		})
	}

	table := leaguestanding.Compute(leagueID, roster, outcomes, s.rules)
	if err := s.standingRepo.ReplaceByLeague(ctx, leagueID, table); err != nil {
		return nil, nil, fmt.Errorf("replace league standings: %w", err)
	}

	updated, err := s.events.newEvent(event.TypeStandingsUpdated, leagueID, "", "", s.now(), map[string]any{
		"participants":     len(table),
		"approved_results": len(outcomes),
		"points_per_win":   s.rules.PointsPerWin,
		"leader_id":        leaderID(table),
	})
	if err != nil {
		return nil, nil, err
	}

	return table, []event.Event{updated}, nil
}

func (s *RankingService) afterCommit(ctx context.Context, leagueID string, events []event.Event) {
	if invalidator, ok := s.standingRepo.(standingCacheInvalidator); ok {
		invalidator.InvalidateLeague(ctx, leagueID)
	}
	s.events.publish(ctx, events)
}

// RecomputeAll rebuilds every league table using a bounded worker pool.
// A failing league does not stop the others.
func (s *RankingService) RecomputeAll(ctx context.Context) (RecomputeAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RecomputeAll")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return RecomputeAllResult{}, fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		return RecomputeAllResult{Leagues: []RecomputeLeagueResult{}}, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(leagues)))
	if err != nil {
		return RecomputeAllResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		succeeded atomic.Int32
		failed    atomic.Int32
		mu        sync.Mutex
		workers   sync.WaitGroup
	)
	results := make([]RecomputeLeagueResult, len(leagues))

	for i, item := range leagues {
		leagueID := item.ID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			started := time.Now()
			row := RecomputeLeagueResult{LeagueID: leagueID, Status: recomputeStatusSuccess}
			table, err := s.Recompute(ctx, leagueID)
			if err != nil {
				failed.Add(1)
				row.Status = recomputeStatusFailed
				row.Message = err.Error()
				s.logger.WarnContext(ctx, "recompute league standings failed", "league_id", leagueID, "error", err)
			} else {
				succeeded.Add(1)
				row.Participants = len(table)
			}
			row.DurationMs = time.Since(started).Milliseconds()

			mu.Lock()
			results[i] = row
			mu.Unlock()
		}); err != nil {
			workers.Done()
			failed.Add(1)
			mu.Lock()
			results[i] = RecomputeLeagueResult{LeagueID: leagueID, Status: recomputeStatusFailed, Message: err.Error()}
			mu.Unlock()
		}
	}
	workers.Wait()

	out := RecomputeAllResult{
		Total:     len(leagues),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Leagues:   results,
	}
	s.logger.InfoContext(ctx, "recompute all league standings finished",
		"total", out.Total,
		"succeeded", out.Succeeded,
		"failed", out.Failed,
	)
	return out, nil
}

func leaderID(table []leaguestanding.Standing) string {
	if len(table) == 0 || !table[0].IsRanked() {
		return ""
	}
	return table[0].ParticipantID
}
