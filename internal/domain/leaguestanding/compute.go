package leaguestanding

import (
	"sort"
	"strings"
)

// Compute derives the full table of a league from its approved outcomes.
//
// Every participant on the roster or in an outcome gets a row. Ranked rows
// are ordered by points, then wins, then participant id; rows without a
// played match follow, ordered by id, with Rank set to Unranked. The result
// does not depend on the order of outcomes or roster.
func Compute(leagueID string, roster []string, outcomes []Outcome, rules Rules) []Standing {
	if rules.PointsPerWin <= 0 {
		rules.PointsPerWin = DefaultPointsPerWin
	}

	rows := make(map[string]*Standing, len(roster))
	row := func(participantID string) *Standing {
		participantID = strings.TrimSpace(participantID)
		if participantID == "" {
			return nil
		}
		if existing, ok := rows[participantID]; ok {
			return existing
		}
		created := &Standing{LeagueID: leagueID, ParticipantID: participantID}
		rows[participantID] = created
		return created
	}

	for _, participantID := range roster {
		row(participantID)
	}

	for _, outcome := range outcomes {
		winner := row(outcome.WinnerID)
		loser := row(outcome.LoserID)
		if winner == nil || loser == nil {
			continue
		}
		winner.Wins++
		winner.Played++
		loser.Losses++
		loser.Played++
	}

	ranked := make([]Standing, 0, len(rows))
	unranked := make([]Standing, 0)
	for _, item := range rows {
		item.Points = item.Wins * rules.PointsPerWin
		if item.Played == 0 {
			item.Rank = Unranked
			unranked = append(unranked, *item)
			continue
		}
		ranked = append(ranked, *item)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		return ranked[i].ParticipantID < ranked[j].ParticipantID
	})
	sort.Slice(unranked, func(i, j int) bool {
		return unranked[i].ParticipantID < unranked[j].ParticipantID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return append(ranked, unranked...)
}
