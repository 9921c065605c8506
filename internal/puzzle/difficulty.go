package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognized names.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty controls how many pieces a puzzle has and how much time the
// player gets per piece.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// secondsPerPiece is the base time allowance before the multiplier.
const secondsPerPiece = 10

// AllDifficulties returns every difficulty from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// ParseDifficulty converts a name (case-insensitive) to a Difficulty.
func ParseDifficulty(name string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(name)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	return d, nil
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// PieceCount returns the number of pieces generated for d.
func (d Difficulty) PieceCount() int {
	switch d {
	case DifficultyMedium:
		return 5
	case DifficultyHard:
		return 7
	case DifficultyExpert:
		return 9
	default:
		return 3
	}
}

// TimeMultiplier scales the per-piece time allowance.
func (d Difficulty) TimeMultiplier() float64 {
	switch d {
	case DifficultyMedium:
		return 1.0
	case DifficultyHard:
		return 0.75
	case DifficultyExpert:
		return 0.5
	default:
		return 1.5
	}
}

// TimeLimit returns the puzzle time limit in seconds.
func (d Difficulty) TimeLimit() float64 {
	return float64(d.PieceCount()*secondsPerPiece) * d.TimeMultiplier()
}

// DisplayName returns a capitalized name for menus.
func (d Difficulty) DisplayName() string {
	if d == "" {
		return ""
	}
	s := string(d)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d Difficulty) String() string {
	return string(d)
}
