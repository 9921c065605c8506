// Package core provides fundamental types and utilities shared by the puzzle
// engine and the terminal front end. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

import "math"

// Point is a position in board space. Board space uses the same units the
// puzzle layout is defined in (see config.Layout), not terminal cells.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the per-axis difference p - q.
func (p Point) Sub(q Point) (dx, dy float64) {
	return p.X - q.X, p.Y - q.Y
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx, dy := p.Sub(q)
	return math.Hypot(dx, dy)
}

// Bounds is an axis-aligned region in board space, inclusive on all edges.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains returns true if p lies inside the bounds (edges included).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp moves p to the nearest point inside the bounds.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: ClampF(p.X, b.MinX, b.MaxX),
		Y: ClampF(p.Y, b.MinY, b.MaxY),
	}
}

// Rect represents an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// WrapDegrees normalizes an angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
