package memory

import (
	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
)

const (
	LeagueIDSpringSingles = "spring-singles-2026"
	LeagueIDSpringDoubles = "spring-doubles-2026"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:              LeagueIDSpringSingles,
			Name:            "Spring Singles Ladder",
			Season:          "2026",
			Sport:           "tennis",
			ParticipantKind: participant.KindIndividual,
		},
		{
			ID:              LeagueIDSpringDoubles,
			Name:            "Spring Doubles Ladder",
			Season:          "2026",
			Sport:           "tennis",
			ParticipantKind: participant.KindPartnership,
		},
	}
}

func SeedIndividuals() []participant.Individual {
	return []participant.Individual{
		{IdentityID: "user-alice", DisplayName: "Alice Moreno"},
		{IdentityID: "user-bima", DisplayName: "Bima Saputra"},
		{IdentityID: "user-chen", DisplayName: "Chen Wei"},
		{IdentityID: "user-dara", DisplayName: "Dara Lestari"},
		{IdentityID: "user-evan", DisplayName: "Evan Brooks"},
		{IdentityID: "user-fira", DisplayName: "Fira Nugroho"},
	}
}

func SeedPartnerships() []participant.Partnership {
	return []participant.Partnership{
		{PartnershipID: "duo-alice-bima", MemberA: "user-alice", MemberB: "user-bima", DisplayName: "Alice & Bima"},
		{PartnershipID: "duo-chen-dara", MemberA: "user-chen", MemberB: "user-dara", DisplayName: "Chen & Dara"},
		{PartnershipID: "duo-evan-fira", MemberA: "user-evan", MemberB: "user-fira", DisplayName: "Evan & Fira"},
	}
}

func SeedRosters() map[string][]string {
	singles := make([]string, 0)
	for _, item := range SeedIndividuals() {
		singles = append(singles, item.ID())
	}
	doubles := make([]string, 0)
	for _, item := range SeedPartnerships() {
		doubles = append(doubles, item.ID())
	}

	return map[string][]string{
		LeagueIDSpringSingles: singles,
		LeagueIDSpringDoubles: doubles,
	}
}
