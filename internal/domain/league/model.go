package league

import (
	"fmt"

	"github.com/riskibarqy/challenge-league/internal/domain/participant"
)

// League groups participants that challenge each other and share one table.
type League struct {
	ID              string
	Name            string
	Season          string
	Sport           string
	ParticipantKind participant.Kind
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if !l.ParticipantKind.Valid() {
		return fmt.Errorf("league participant kind %q is invalid", l.ParticipantKind)
	}

	return nil
}
