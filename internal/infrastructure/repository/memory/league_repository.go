package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	rosters map[string][]string
	orders  []string
}

func NewLeagueRepository(leagues []league.League, rosters map[string][]string) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	copiedRosters := make(map[string][]string, len(rosters))
	for leagueID, ids := range rosters {
		copiedRosters[leagueID] = append([]string(nil), ids...)
	}

	return &LeagueRepository{
		items:   items,
		rosters: copiedRosters,
		orders:  orders,
	}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListParticipantIDs(_ context.Context, leagueID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.rosters[leagueID]...), nil
}
