package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	// ListParticipantIDs returns the league roster. An empty roster means the
	// league is open to any participant of its kind.
	ListParticipantIDs(ctx context.Context, leagueID string) ([]string, error)
}
