package session

import (
	"math"
	"sort"
)

// StreakTier awards Points once the streak reaches MinStreak.
type StreakTier struct {
	MinStreak int
	Points    int
}

// Scoring holds the score formula constants.
type Scoring struct {
	PiecePoints  int
	SecondPoints int
	StreakTiers  []StreakTier
}

// DefaultScoring returns the standard scoring rules.
func DefaultScoring() Scoring {
	return Scoring{
		PiecePoints:  100,
		SecondPoints: 10,
		StreakTiers: []StreakTier{
			{MinStreak: 10, Points: 500},
			{MinStreak: 5, Points: 250},
			{MinStreak: 3, Points: 100},
		},
	}
}

// LevelScore returns (pieces*PiecePoints + floor(timeRemaining)*SecondPoints) * level.
// Negative remaining time counts as zero.
func (s Scoring) LevelScore(pieces int, timeRemaining float64, level int) int {
	secs := int(math.Floor(math.Max(0, timeRemaining)))
	return (pieces*s.PiecePoints + secs*s.SecondPoints) * level
}

// StreakBonus returns the points of the highest tier the streak reaches.
func (s Scoring) StreakBonus(streak int) int {
	tiers := append([]StreakTier(nil), s.StreakTiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinStreak > tiers[j].MinStreak })
	for _, t := range tiers {
		if streak >= t.MinStreak {
			return t.Points
		}
	}
	return 0
}
