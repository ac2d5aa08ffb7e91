package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
)

type LeagueService struct {
	leagueRepo      league.Repository
	participantRepo participant.Repository
}

func NewLeagueService(leagueRepo league.Repository, participantRepo participant.Repository) *LeagueService {
	return &LeagueService{
		leagueRepo:      leagueRepo,
		participantRepo: participantRepo,
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	return ensureLeague(ctx, s.leagueRepo, leagueID)
}

// ListParticipants resolves the league roster. Open leagues return an
// empty list.
func (s *LeagueService) ListParticipants(ctx context.Context, leagueID string) ([]participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListParticipants", leagueAttr(leagueID))
	defer span.End()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	ids, err := s.leagueRepo.ListParticipantIDs(ctx, strings.TrimSpace(leagueID))
	if err != nil {
		return nil, fmt.Errorf("list league roster: %w", err)
	}
	if len(ids) == 0 {
		return []participant.Participant{}, nil
	}

	items, err := s.participantRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list league participants: %w", err)
	}
	return items, nil
}
