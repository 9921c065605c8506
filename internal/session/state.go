// Package session runs a timed puzzle session: the countdown, piece
// commands, win and loss detection, scoring and streaks.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

// State is the session state machine position.
//
//	Idle -> Active <-> Paused -> (Won | Lost) -> Idle
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the session state for display.
type Snapshot struct {
	State         State
	Level         int
	Difficulty    puzzle.Difficulty
	Score         int
	TimeRemaining float64
	TimeLimit     float64
	Streak        int
	// LastPoints and StreakBonus describe the most recent result.
	LastPoints  int
	StreakBonus int
	Selected    uuid.UUID
	Puzzle      *puzzle.Puzzle
}

// Active reports whether the countdown is running.
func (s Snapshot) Active() bool { return s.State == StateActive }

// Paused reports whether the session is paused.
func (s Snapshot) Paused() bool { return s.State == StatePaused }

// Won reports whether the last level was solved.
func (s Snapshot) Won() bool { return s.State == StateWon }

// Lost reports whether the last level timed out.
func (s Snapshot) Lost() bool { return s.State == StateLost }

// Result is emitted once per finished level.
type Result struct {
	Success       bool
	Level         int
	Difficulty    puzzle.Difficulty
	PieceCount    int
	Points        int // level score before the streak bonus
	StreakBonus   int
	TimeRemaining float64
	Elapsed       time.Duration
	FinishedAt    time.Time
	// Profile is the updated profile after the transition.
	Profile *profile.Profile
}

// Total returns Points plus StreakBonus.
func (r Result) Total() int {
	return r.Points + r.StreakBonus
}
