package score

import (
	"errors"
	"fmt"
)

const (
	// MaxRegularGames is the highest game count either side may reach in a set
	// that is not decided by a tiebreak.
	MaxRegularGames = 6
	// MinMargin is the games lead required to close a regular set.
	MinMargin = 2

	TiebreakHigh = 7
	TiebreakLow  = 6

	MinSets = 2
	MaxSets = 3
)

var (
	ErrInvalidSet = errors.New("invalid set score")
	ErrSetCount   = errors.New("invalid number of sets")
)

// Set is one set of a match, reported from the winner's side.
type Set struct {
	WinnerGames int  `json:"winner_games"`
	LoserGames  int  `json:"loser_games"`
	Tiebreak    bool `json:"tiebreak"`
}

// ValidateSet reports whether a single set score is acceptable.
//
// A regular set accepts 6-5 without the margin check. A tiebreak set is only
// ever 7-6, in either order.
func ValidateSet(winnerGames, loserGames int, tiebreak bool) bool {
	if winnerGames < 0 || loserGames < 0 {
		return false
	}

	if tiebreak {
		return (winnerGames == TiebreakHigh && loserGames == TiebreakLow) ||
			(winnerGames == TiebreakLow && loserGames == TiebreakHigh)
	}

	if winnerGames > MaxRegularGames || loserGames > MaxRegularGames {
		return false
	}

	high, low := winnerGames, loserGames
	if low > high {
		high, low = low, high
	}

	if high == MaxRegularGames && low > 4 {
		return true
	}

	return high-low >= MinMargin && high <= MaxRegularGames
}

// Valid is ValidateSet applied to s.
func (s Set) Valid() bool {
	return ValidateSet(s.WinnerGames, s.LoserGames, s.Tiebreak)
}

// ValidateMatch checks set count and every set. The sets are not
// cross-checked for a majority in favour of the reported winner.
func ValidateMatch(sets []Set) error {
	if len(sets) < MinSets || len(sets) > MaxSets {
		return fmt.Errorf("%w: got %d, want %d..%d", ErrSetCount, len(sets), MinSets, MaxSets)
	}

	for i, set := range sets {
		if !set.Valid() {
			return fmt.Errorf("%w: set %d is %d-%d (tiebreak=%t)", ErrInvalidSet, i+1, set.WinnerGames, set.LoserGames, set.Tiebreak)
		}
	}

	return nil
}

// Mirror returns the same sets seen from the loser's side.
func Mirror(sets []Set) []Set {
	out := make([]Set, 0, len(sets))
	for _, set := range sets {
		out = append(out, Set{
			WinnerGames: set.LoserGames,
			LoserGames:  set.WinnerGames,
			Tiebreak:    set.Tiebreak,
		})
	}
	return out
}

// Clone copies sets so callers cannot alias stored slices.
func Clone(sets []Set) []Set {
	if sets == nil {
		return nil
	}
	out := make([]Set, len(sets))
	copy(out, sets)
	return out
}
