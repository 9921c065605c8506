package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to a terminal style.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorGray
	ColorWhite
	ColorRed
	ColorTeal
	ColorGold
	ColorPurple
	ColorBlue
	ColorGreen
	ColorYellow
)
