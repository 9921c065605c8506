package puzzle

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
)

// Color is a palette entry stored as a hex string.
type Color string

// Palette colors.
const (
	ColorPrimary   Color = "#ff2300"
	ColorSecondary Color = "#06dbab"
	ColorAccent1   Color = "#FFD700"
	ColorAccent2   Color = "#9B59B6"
	ColorAccent3   Color = "#3498DB"
)

// AllColors returns the palette in declaration order.
func AllColors() []Color {
	return []Color{ColorPrimary, ColorSecondary, ColorAccent1, ColorAccent2, ColorAccent3}
}

// Piece is one shape instance. A target piece and its arrangement
// counterpart are separate values that share an ID.
type Piece struct {
	ID       uuid.UUID  `json:"id"`
	Shape    Shape      `json:"shape"`
	Color    Color      `json:"color"`
	Position core.Point `json:"position"`
	Rotation float64    `json:"rotation"`
}
