package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

// colorStyles maps core.Color to lipgloss styles. Piece colors use the
// palette hex values; lipgloss degrades them on limited terminals.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color(string(puzzle.ColorPrimary))),
	core.ColorTeal:    lipgloss.NewStyle().Foreground(lipgloss.Color(string(puzzle.ColorSecondary))),
	core.ColorGold:    lipgloss.NewStyle().Foreground(lipgloss.Color(string(puzzle.ColorAccent1))),
	core.ColorPurple:  lipgloss.NewStyle().Foreground(lipgloss.Color(string(puzzle.ColorAccent2))),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color(string(puzzle.ColorAccent3))),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
}

// pieceColor maps a palette color to the screen color that renders it.
func pieceColor(c puzzle.Color) core.Color {
	switch c {
	case puzzle.ColorPrimary:
		return core.ColorRed
	case puzzle.ColorSecondary:
		return core.ColorTeal
	case puzzle.ColorAccent1:
		return core.ColorGold
	case puzzle.ColorAccent2:
		return core.ColorPurple
	case puzzle.ColorAccent3:
		return core.ColorBlue
	default:
		return core.ColorWhite
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
