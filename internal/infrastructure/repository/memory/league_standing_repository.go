package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
)

type LeagueStandingRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]leaguestanding.Standing
}

func NewLeagueStandingRepository() *LeagueStandingRepository {
	return &LeagueStandingRepository{byLeague: make(map[string][]leaguestanding.Standing)}
}

func (r *LeagueStandingRepository) ListByLeague(_ context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]leaguestanding.Standing(nil), r.byLeague[leagueID]...), nil
}

func (r *LeagueStandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, standings []leaguestanding.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.byLeague[leagueID]
	remember(ctx, func() {
		r.mu.Lock()
		if existed {
			r.byLeague[leagueID] = previous
		} else {
			delete(r.byLeague, leagueID)
		}
		r.mu.Unlock()
	})

	r.byLeague[leagueID] = append([]leaguestanding.Standing(nil), standings...)
	return nil
}
