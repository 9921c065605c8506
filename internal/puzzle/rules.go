package puzzle

import (
	"math"

	"github.com/vovakirdan/cognify-quest/internal/core"
)

// Layout places target pieces on a grid and bounds the scattered start
// positions. All values are board units.
type Layout struct {
	OffsetX float64
	OffsetY float64
	Spacing float64
	// Region bounds the random starting positions of the arrangement.
	Region core.Bounds
}

// Board bounds every position a piece may take: the scatter region and
// the largest target grid, padded by half a grid step.
func (l Layout) Board() core.Bounds {
	b := l.Region
	n := DifficultyExpert.PieceCount()
	for i := 0; i < n; i++ {
		p := GridPosition(l, i, n)
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	pad := l.Spacing / 2
	return core.Bounds{MinX: b.MinX - pad, MinY: b.MinY - pad, MaxX: b.MaxX + pad, MaxY: b.MaxY + pad}
}

// Tolerances holds the matching thresholds.
type Tolerances struct {
	Position     float64 // max per-axis offset for a solved piece
	Rotation     float64 // max circular rotation offset for a solved piece
	SnapDistance float64 // Euclidean radius below which a piece snaps
	SnapRotation float64 // raw rotation band used by snapping
	Hint         float64 // per-axis offset above which a piece is hinted
}

// Rules bundles layout and tolerances.
type Rules struct {
	Layout     Layout
	Tolerances Tolerances
}

// DefaultLayout returns the standard board layout.
func DefaultLayout() Layout {
	return Layout{
		OffsetX: 80,
		OffsetY: 120,
		Spacing: 90,
		Region:  core.Bounds{MinX: 80, MinY: 120, MaxX: 280, MaxY: 350},
	}
}

// DefaultTolerances returns the standard matching thresholds.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Position:     50,
		Rotation:     35,
		SnapDistance: 60,
		SnapRotation: 30,
		Hint:         30,
	}
}

// DefaultRules returns DefaultLayout and DefaultTolerances together.
func DefaultRules() Rules {
	return Rules{Layout: DefaultLayout(), Tolerances: DefaultTolerances()}
}
