package puzzle

import (
	"github.com/google/uuid"
)

// Puzzle is a target pattern plus the live arrangement the player edits.
// Target is fixed for the puzzle's lifetime; Arrangement holds the same
// IDs and is mutated by move and rotate commands.
type Puzzle struct {
	ID          uuid.UUID  `json:"id"`
	Level       int        `json:"level"`
	Target      []Piece    `json:"target"`
	Arrangement []Piece    `json:"arrangement"`
	TimeLimit   float64    `json:"time_limit"`
	Difficulty  Difficulty `json:"difficulty"`
}

// PieceCount returns the number of pieces in the target pattern.
func (p *Puzzle) PieceCount() int {
	return len(p.Target)
}

// TargetPiece returns the target definition for id.
func (p *Puzzle) TargetPiece(id uuid.UUID) (Piece, bool) {
	for _, t := range p.Target {
		if t.ID == id {
			return t, true
		}
	}
	return Piece{}, false
}

// ArrangementIndex returns the index of id in the arrangement, or -1.
func (p *Puzzle) ArrangementIndex(id uuid.UUID) int {
	for i, a := range p.Arrangement {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// ArrangementPiece returns the current state of the piece with id.
func (p *Puzzle) ArrangementPiece(id uuid.UUID) (Piece, bool) {
	i := p.ArrangementIndex(id)
	if i < 0 {
		return Piece{}, false
	}
	return p.Arrangement[i], true
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p *Puzzle) Clone() *Puzzle {
	if p == nil {
		return nil
	}
	c := *p
	c.Target = append([]Piece(nil), p.Target...)
	c.Arrangement = append([]Piece(nil), p.Arrangement...)
	return &c
}
