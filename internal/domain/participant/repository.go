package participant

import "context"

// Repository resolves participant ids to either variant.
type Repository interface {
	GetByID(ctx context.Context, participantID string) (Participant, bool, error)
	ListByIDs(ctx context.Context, participantIDs []string) ([]Participant, error)
}
