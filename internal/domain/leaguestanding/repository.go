package leaguestanding

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Standing, error)
	// ReplaceByLeague swaps the whole table of a league for standings.
	ReplaceByLeague(ctx context.Context, leagueID string, standings []Standing) error
}
