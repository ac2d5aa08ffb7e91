package participant

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindIndividual  Kind = "individual"
	KindPartnership Kind = "partnership"
)

func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindPartnership
}

var ErrInvalidParticipant = errors.New("invalid participant")

// Participant is one side of a challenge: a single player or a two-person
// partnership. Lifecycle checks only go through this interface.
type Participant interface {
	ID() string
	Kind() Kind
	Name() string
	Members() []string
	HasMember(identityID string) bool
	Equals(other Participant) bool
}

// Individual is a player competing alone. Its participant id is the
// identity id of the player.
type Individual struct {
	IdentityID  string
	DisplayName string
}

func (i Individual) ID() string        { return i.IdentityID }
func (i Individual) Kind() Kind        { return KindIndividual }
func (i Individual) Name() string      { return i.DisplayName }
func (i Individual) Members() []string { return []string{i.IdentityID} }

func (i Individual) HasMember(identityID string) bool {
	identityID = strings.TrimSpace(identityID)
	return identityID != "" && identityID == i.IdentityID
}

func (i Individual) Equals(other Participant) bool {
	return equals(i, other)
}

func (i Individual) Validate() error {
	if strings.TrimSpace(i.IdentityID) == "" {
		return fmt.Errorf("%w: individual identity id is required", ErrInvalidParticipant)
	}
	return nil
}

// Partnership binds two players into one competing unit. It keeps its own
// id so it outlives changes on either member's account.
type Partnership struct {
	PartnershipID string
	MemberA       string
	MemberB       string
	DisplayName   string
}

func (p Partnership) ID() string        { return p.PartnershipID }
func (p Partnership) Kind() Kind        { return KindPartnership }
func (p Partnership) Name() string      { return p.DisplayName }
func (p Partnership) Members() []string { return []string{p.MemberA, p.MemberB} }

func (p Partnership) HasMember(identityID string) bool {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return false
	}
	return identityID == p.MemberA || identityID == p.MemberB
}

func (p Partnership) Equals(other Participant) bool {
	return equals(p, other)
}

func (p Partnership) Validate() error {
	if strings.TrimSpace(p.PartnershipID) == "" {
		return fmt.Errorf("%w: partnership id is required", ErrInvalidParticipant)
	}
	if strings.TrimSpace(p.MemberA) == "" || strings.TrimSpace(p.MemberB) == "" {
		return fmt.Errorf("%w: partnership %s needs two members", ErrInvalidParticipant, p.PartnershipID)
	}
	if p.MemberA == p.MemberB {
		return fmt.Errorf("%w: partnership %s members must differ", ErrInvalidParticipant, p.PartnershipID)
	}
	return nil
}

func equals(a, b Participant) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Kind() == b.Kind() && a.ID() == b.ID()
}

// SharesMember reports whether any identity plays on both sides.
func SharesMember(a, b Participant) bool {
	if a == nil || b == nil {
		return false
	}
	for _, member := range a.Members() {
		if b.HasMember(member) {
			return true
		}
	}
	return false
}
