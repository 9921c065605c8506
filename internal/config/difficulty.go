package config

import (
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

// ResolveDifficulty picks the difficulty for a new game. An explicit name
// wins, then the profile preference, then the configured default.
func (c Config) ResolveDifficulty(name string, preferred puzzle.Difficulty) (puzzle.Difficulty, error) {
	if name != "" {
		return puzzle.ParseDifficulty(name)
	}
	if preferred.Valid() {
		return preferred, nil
	}
	if d, err := puzzle.ParseDifficulty(c.Session.DefaultDifficulty); err == nil {
		return d, nil
	}
	return puzzle.DifficultyEasy, nil
}

// DifficultyInfo describes a difficulty for listings.
type DifficultyInfo struct {
	Difficulty     puzzle.Difficulty
	Pieces         int
	TimeMultiplier float64
	TimeLimit      float64
}

// Difficulties returns every difficulty with its derived parameters.
func Difficulties() []DifficultyInfo {
	var out []DifficultyInfo
	for _, d := range puzzle.AllDifficulties() {
		out = append(out, DifficultyInfo{
			Difficulty:     d,
			Pieces:         d.PieceCount(),
			TimeMultiplier: d.TimeMultiplier(),
			TimeLimit:      d.TimeLimit(),
		})
	}
	return out
}
