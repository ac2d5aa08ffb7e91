package usecase

import "context"

// Transactor runs fn as one atomic unit scoped to a league. Calls for the
// same league are serialized, and everything fn writes through the
// repositories is discarded when fn returns an error.
type Transactor interface {
	InLeagueTx(ctx context.Context, leagueID string, fn func(ctx context.Context) error) error
}
