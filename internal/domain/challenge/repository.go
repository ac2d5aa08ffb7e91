package challenge

import "context"

// Repository describes challenge persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, c Challenge) error
	GetByID(ctx context.Context, challengeID string) (Challenge, bool, error)
	ListByLeague(ctx context.Context, leagueID string, filter ListFilter) ([]Challenge, error)
	ListApprovedByLeague(ctx context.Context, leagueID string) ([]Challenge, error)
	// Update stores next only if the stored challenge still matches expected,
	// otherwise it returns ErrVersionConflict.
	Update(ctx context.Context, expected Expectation, next Challenge) error
}
