package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
)

type ChallengeRepository struct {
	mu    sync.RWMutex
	items map[string]challenge.Challenge
}

func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{items: make(map[string]challenge.Challenge)}
}

func (r *ChallengeRepository) Create(ctx context.Context, c challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return fmt.Errorf("challenge %s already exists", c.ID)
	}

	remember(ctx, func() {
		r.mu.Lock()
		delete(r.items, c.ID)
		r.mu.Unlock()
	})
	r.items[c.ID] = c.Clone()
	return nil
}

func (r *ChallengeRepository) GetByID(_ context.Context, challengeID string) (challenge.Challenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[challengeID]
	if !ok {
		return challenge.Challenge{}, false, nil
	}

	return item.Clone(), true, nil
}

func (r *ChallengeRepository) ListByLeague(_ context.Context, leagueID string, filter challenge.ListFilter) ([]challenge.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Challenge, 0)
	for _, item := range r.items {
		if item.LeagueID != leagueID || !filter.Match(item) {
			continue
		}
		out = append(out, item.Clone())
	}
	sortChallenges(out)

	return out, nil
}

func (r *ChallengeRepository) ListApprovedByLeague(ctx context.Context, leagueID string) ([]challenge.Challenge, error) {
	return r.ListByLeague(ctx, leagueID, challenge.ListFilter{
		Status:       challenge.StatusCompleted,
		ResultStatus: challenge.ResultStatusApproved,
	})
}

func (r *ChallengeRepository) Update(ctx context.Context, expected challenge.Expectation, next challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[next.ID]
	if !ok {
		return fmt.Errorf("%w: challenge %s does not exist", challenge.ErrVersionConflict, next.ID)
	}
	if !expected.Matches(stored) {
		return fmt.Errorf("%w: challenge %s is at version %d (%s/%s)", challenge.ErrVersionConflict, next.ID, stored.Version, stored.Status, stored.ResultStatus)
	}

	remember(ctx, func() {
		r.mu.Lock()
		r.items[stored.ID] = stored
		r.mu.Unlock()
	})
	r.items[next.ID] = next.Clone()
	return nil
}

func sortChallenges(items []challenge.Challenge) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
