// Package puzzle contains the pure puzzle engine: the shape catalog, the
// puzzle generator and the match engine. Nothing in here knows about
// timers, terminals or storage.
package puzzle

// Shape identifies one of the fixed set of piece shapes.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"
	ShapeDiamond  Shape = "diamond"
	ShapeHexagon  Shape = "hexagon"
	ShapeStar     Shape = "star"
)

// AllShapes returns the shape catalog in declaration order.
func AllShapes() []Shape {
	return []Shape{
		ShapeCircle,
		ShapeSquare,
		ShapeTriangle,
		ShapeDiamond,
		ShapeHexagon,
		ShapeStar,
	}
}

// IsRotationInvariant reports whether the shape looks the same at every
// rotation. Such shapes are never rotation-checked and never rotate.
func (s Shape) IsRotationInvariant() bool {
	return s == ShapeCircle
}

// NeedsRotation is the inverse of IsRotationInvariant.
func (s Shape) NeedsRotation() bool {
	return !s.IsRotationInvariant()
}

// Valid reports whether s is part of the catalog.
func (s Shape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeTriangle, ShapeDiamond, ShapeHexagon, ShapeStar:
		return true
	}
	return false
}

// Glyph returns a single-rune symbol used by text renderers.
func (s Shape) Glyph() rune {
	switch s {
	case ShapeCircle:
		return '●'
	case ShapeSquare:
		return '■'
	case ShapeTriangle:
		return '▲'
	case ShapeDiamond:
		return '◆'
	case ShapeHexagon:
		return '⬢'
	case ShapeStar:
		return '★'
	default:
		return '?'
	}
}
