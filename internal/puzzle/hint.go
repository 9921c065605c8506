package puzzle

import (
	"math"

	"github.com/google/uuid"
)

// Hint returns the ID of the first target piece, in target order, whose
// arrangement counterpart is more than Tolerances.Hint away on either axis.
// The result is advisory; a piece can be out of hint range and still keep
// the puzzle unsolved because of its rotation.
func (m Matcher) Hint(p *Puzzle) (uuid.UUID, bool) {
	if p == nil {
		return uuid.Nil, false
	}
	for _, t := range p.Target {
		cur, ok := p.ArrangementPiece(t.ID)
		if !ok {
			continue
		}
		dx, dy := cur.Position.Sub(t.Position)
		if math.Abs(dx) > m.tol.Hint || math.Abs(dy) > m.tol.Hint {
			return t.ID, true
		}
	}
	return uuid.Nil, false
}
