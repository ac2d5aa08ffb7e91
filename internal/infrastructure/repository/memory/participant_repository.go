package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/participant"
)

type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]participant.Participant
}

func NewParticipantRepository(individuals []participant.Individual, partnerships []participant.Partnership) *ParticipantRepository {
	items := make(map[string]participant.Participant, len(individuals)+len(partnerships))
	for _, item := range individuals {
		items[item.ID()] = item
	}
	for _, item := range partnerships {
		items[item.ID()] = item
	}

	return &ParticipantRepository{items: items}
}

func (r *ParticipantRepository) GetByID(_ context.Context, participantID string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[participantID]
	if !ok {
		return nil, false, nil
	}

	return item, true, nil
}

func (r *ParticipantRepository) ListByIDs(_ context.Context, participantIDs []string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(participantIDs))
	for _, id := range participantIDs {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}

	return out, nil
}
