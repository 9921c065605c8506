package puzzle

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
)

// Generator builds puzzles. A Generator created with the same seed and
// layout produces the same sequence of puzzles, IDs included.
// It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	layout Layout
}

// NewGenerator creates a generator. A zero seed is used as is.
func NewGenerator(seed int64, layout Layout) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		layout: layout,
	}
}

// Layout returns the layout the generator places pieces with.
func (g *Generator) Layout() Layout {
	return g.layout
}

// Generate creates a puzzle for level at difficulty d. Levels below 1 are
// treated as 1 and unknown difficulties fall back to easy.
func (g *Generator) Generate(level int, d Difficulty) *Puzzle {
	if level < 1 {
		level = 1
	}
	if !d.Valid() {
		d = DifficultyEasy
	}

	n := d.PieceCount()
	shapes := AllShapes()
	colors := AllColors()
	g.rng.Shuffle(len(shapes), func(i, j int) { shapes[i], shapes[j] = shapes[j], shapes[i] })
	g.rng.Shuffle(len(colors), func(i, j int) { colors[i], colors[j] = colors[j], colors[i] })

	target := make([]Piece, n)
	for i := range target {
		target[i] = Piece{
			ID:       g.newID(),
			Shape:    shapes[i%len(shapes)],
			Color:    colors[i%len(colors)],
			Position: GridPosition(g.layout, i, n),
			Rotation: 0,
		}
	}

	arrangement := make([]Piece, n)
	for i, t := range target {
		arrangement[i] = Piece{
			ID:       t.ID,
			Shape:    t.Shape,
			Color:    t.Color,
			Position: g.randomPoint(),
			Rotation: g.rng.Float64() * 360,
		}
	}
	g.rng.Shuffle(n, func(i, j int) { arrangement[i], arrangement[j] = arrangement[j], arrangement[i] })

	return &Puzzle{
		ID:          g.newID(),
		Level:       level,
		Target:      target,
		Arrangement: arrangement,
		TimeLimit:   d.TimeLimit(),
		Difficulty:  d,
	}
}

// GridPosition returns the target position of piece index i out of n.
// Pieces fill rows of ceil(sqrt(n)) columns.
func GridPosition(l Layout, i, n int) core.Point {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	row, col := i/cols, i%cols
	return core.Pt(l.OffsetX+float64(col)*l.Spacing, l.OffsetY+float64(row)*l.Spacing)
}

func (g *Generator) randomPoint() core.Point {
	r := g.layout.Region
	return core.Pt(
		r.MinX+g.rng.Float64()*(r.MaxX-r.MinX),
		r.MinY+g.rng.Float64()*(r.MaxY-r.MinY),
	)
}

// newID draws a v4 UUID from the seeded source so generation stays
// reproducible.
func (g *Generator) newID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.New()
	}
	return id
}
