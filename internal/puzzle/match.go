package puzzle

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
)

// Matcher compares arrangements against targets using a fixed set of
// tolerances. The zero value is not useful; use NewMatcher.
type Matcher struct {
	tol Tolerances
}

// NewMatcher creates a matcher with the given tolerances.
func NewMatcher(tol Tolerances) Matcher {
	return Matcher{tol: tol}
}

// Tolerances returns the thresholds in use.
func (m Matcher) Tolerances() Tolerances {
	return m.tol
}

// MismatchReason says why a piece failed the solved check.
type MismatchReason string

const (
	ReasonMissing  MismatchReason = "missing"
	ReasonPosition MismatchReason = "position"
	ReasonRotation MismatchReason = "rotation"
)

// Mismatch describes a single piece that keeps a puzzle unsolved.
type Mismatch struct {
	ID       uuid.UUID
	Shape    Shape
	Reason   MismatchReason
	DX, DY   float64 // per-axis offset from target
	Rotation float64 // circular rotation offset from target
}

func (m Mismatch) String() string {
	switch m.Reason {
	case ReasonMissing:
		return fmt.Sprintf("%s %s: not in arrangement", m.Shape, m.ID)
	case ReasonPosition:
		return fmt.Sprintf("%s %s: off by (%.1f, %.1f)", m.Shape, m.ID, m.DX, m.DY)
	default:
		return fmt.Sprintf("%s %s: rotated %.1f°", m.Shape, m.ID, m.Rotation)
	}
}

// IsSolved reports whether every target piece has an arrangement
// counterpart within tolerance. Matching is by ID, never by order, and a
// puzzle whose ID sets disagree is never solved.
func (m Matcher) IsSolved(p *Puzzle) bool {
	if p == nil || len(p.Target) == 0 || len(p.Target) != len(p.Arrangement) {
		return false
	}
	for _, t := range p.Target {
		cur, ok := p.ArrangementPiece(t.ID)
		if !ok {
			return false
		}
		if _, bad := m.check(cur, t); bad {
			return false
		}
	}
	return true
}

// Mismatches lists every target piece that fails the solved check.
// It is diagnostic only; IsSolved is the authoritative check.
func (m Matcher) Mismatches(p *Puzzle) []Mismatch {
	if p == nil {
		return nil
	}
	var out []Mismatch
	for _, t := range p.Target {
		cur, ok := p.ArrangementPiece(t.ID)
		if !ok {
			out = append(out, Mismatch{ID: t.ID, Shape: t.Shape, Reason: ReasonMissing})
			continue
		}
		if mm, bad := m.check(cur, t); bad {
			out = append(out, mm)
		}
	}
	return out
}

func (m Matcher) check(cur, target Piece) (Mismatch, bool) {
	dx, dy := cur.Position.Sub(target.Position)
	mm := Mismatch{ID: target.ID, Shape: target.Shape, DX: dx, DY: dy}
	if math.Abs(dx) > m.tol.Position || math.Abs(dy) > m.tol.Position {
		mm.Reason = ReasonPosition
		return mm, true
	}
	if target.Shape.IsRotationInvariant() {
		return mm, false
	}
	mm.Rotation = RotationDistance(cur.Rotation, target.Rotation)
	if mm.Rotation > m.tol.Rotation {
		mm.Reason = ReasonRotation
		return mm, true
	}
	return mm, false
}

// RotationDistance returns the shortest circular distance between two
// angles in degrees, in [0, 180].
func RotationDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

// SnapResult is the outcome of TrySnap.
type SnapResult struct {
	Position core.Point
	Rotation float64
	Snapped  bool
}

// TrySnap pulls piece onto target when it is close enough. The rotation
// band is raw (|Δ| mod 360 below SnapRotation or above 360-SnapRotation),
// which is looser than the solved check. Rotation-invariant shapes always
// pass the rotation test and keep their rotation value.
func (m Matcher) TrySnap(piece, target Piece) SnapResult {
	res := SnapResult{Position: piece.Position, Rotation: piece.Rotation}
	if piece.Position.Distance(target.Position) >= m.tol.SnapDistance {
		return res
	}

	needsRotation := target.Shape.NeedsRotation()
	if needsRotation {
		diff := math.Mod(math.Abs(piece.Rotation-target.Rotation), 360)
		if !(diff < m.tol.SnapRotation || diff > 360-m.tol.SnapRotation) {
			return res
		}
	}

	res.Position = target.Position
	if needsRotation {
		res.Rotation = target.Rotation
	}
	res.Snapped = true
	return res
}
