package cache

import (
	"context"
	"slices"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	basecache "github.com/riskibarqy/challenge-league/internal/platform/cache"
)

func leagueKeyPrefix(leagueID string) string {
	return "league:" + leagueID + ":"
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "leagues:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return slices.Clone(items), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKeyPrefix(leagueID)+"info", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListParticipantIDs(ctx context.Context, leagueID string) ([]string, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKeyPrefix(leagueID)+"roster", func(ctx context.Context) (any, error) {
		items, err := r.next.ListParticipantIDs(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]string)
	return slices.Clone(items), nil
}

type cachedLeague struct {
	value  league.League
	exists bool
}

// ParticipantRepository caches participants by id. Participants are
// immutable once registered, so entries only leave the cache by TTL.
type ParticipantRepository struct {
	next  participant.Repository
	cache *basecache.Store
}

func NewParticipantRepository(next participant.Repository, cache *basecache.Store) *ParticipantRepository {
	return &ParticipantRepository{next: next, cache: cache}
}

func (r *ParticipantRepository) GetByID(ctx context.Context, participantID string) (participant.Participant, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "participant:"+participantID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, participantID)
		if err != nil {
			return nil, err
		}
		return cachedParticipant{value: item, exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}

	cached, _ := v.(cachedParticipant)
	return cached.value, cached.exists, nil
}

func (r *ParticipantRepository) ListByIDs(ctx context.Context, participantIDs []string) ([]participant.Participant, error) {
	if len(participantIDs) == 0 {
		return []participant.Participant{}, nil
	}

	ids := slices.Clone(participantIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	key := "participants:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]participant.Participant)
	return slices.Clone(items), nil
}

type cachedParticipant struct {
	value  participant.Participant
	exists bool
}

// LeagueStandingRepository caches league tables. Writes pass straight
// through; callers invalidate the league once their transaction commits.
type LeagueStandingRepository struct {
	next  leaguestanding.Repository
	cache *basecache.Store
}

func NewLeagueStandingRepository(next leaguestanding.Repository, cache *basecache.Store) *LeagueStandingRepository {
	return &LeagueStandingRepository{next: next, cache: cache}
}

func (r *LeagueStandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKeyPrefix(leagueID)+"standings", func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]leaguestanding.Standing)
	return slices.Clone(items), nil
}

func (r *LeagueStandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, standings []leaguestanding.Standing) error {
	if err := r.next.ReplaceByLeague(ctx, leagueID, standings); err != nil {
		return err
	}
	r.InvalidateLeague(ctx, leagueID)
	return nil
}

// InvalidateLeague drops every cached entry of a league, including values
// still being loaded.
func (r *LeagueStandingRepository) InvalidateLeague(ctx context.Context, leagueID string) {
	r.cache.DeletePrefix(ctx, leagueKeyPrefix(leagueID))
}
