package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/session"
)

// Board geometry. One column covers unitsPerCol board units and one row
// covers unitsPerRow, which keeps pieces roughly square in a terminal.
const (
	boardOriginX = 40.0
	boardOriginY = 80.0
	unitsPerCol  = 10.0
	unitsPerRow  = 20.0
	boardCols    = 30
	boardRows    = 17
	hudWidth     = 28

	// ScreenWidth and ScreenHeight are the minimum terminal size.
	ScreenWidth  = boardCols + 2 + 1 + hudWidth
	ScreenHeight = boardRows + 3
)

var rotationArrows = []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// BoardView is everything the board renderer needs for one frame.
type BoardView struct {
	Snapshot session.Snapshot
	Profile  *profile.Profile
	Hint     uuid.UUID
	// Status is a transient one-line message shown under the board.
	Status string
}

// boardCell maps a board position to an interior cell of the board box.
// Positions outside the drawable area are clamped to its edge.
func boardCell(p core.Point) (x, y int) {
	x = int(math.Floor((p.X - boardOriginX) / unitsPerCol))
	y = int(math.Floor((p.Y - boardOriginY) / unitsPerRow))
	return core.Clamp(x, 0, boardCols-1), core.Clamp(y, 0, boardRows-1)
}

// rotationArrow returns the arrow closest to deg, 0 pointing up.
func rotationArrow(deg float64) rune {
	i := int(math.Round(core.WrapDegrees(deg)/45)) % len(rotationArrows)
	return rotationArrows[i]
}

// DrawBoard draws the board, pieces, HUD and any overlay onto s.
func DrawBoard(s *core.Screen, v BoardView) {
	s.Clear()
	frame := core.NewRect(0, 0, boardCols+2, boardRows+2)
	s.DrawBox(frame, core.ColorGray)

	snap := v.Snapshot
	if p := snap.Puzzle; p != nil {
		drawTargets(s, p, v.Hint)
		drawPieces(s, p, snap.Selected, v.Hint)
	}

	drawHUD(s, frame.Right()+1, v)

	switch snap.State {
	case session.StateIdle:
		drawOverlay(s, frame, core.ColorWhite, "COGNIFY QUEST", "", "enter: start", "b: menu")
	case session.StatePaused:
		drawOverlay(s, frame, core.ColorYellow, "PAUSED", "", "p: resume")
	case session.StateWon:
		lines := []string{fmt.Sprintf("LEVEL %d COMPLETE", snap.Level), fmt.Sprintf("+%d points", snap.LastPoints)}
		if snap.StreakBonus > 0 {
			lines = append(lines, fmt.Sprintf("streak x%d  +%d", snap.Streak, snap.StreakBonus))
		}
		lines = append(lines, "", "enter: next level")
		drawOverlay(s, frame, core.ColorGreen, lines...)
	case session.StateLost:
		drawOverlay(s, frame, core.ColorRed, "TIME'S UP", "", "enter: retry", "b: menu")
	}

	if v.Status != "" {
		s.DrawTextColored(1, frame.Bottom(), v.Status, core.ColorYellow)
	}
}

func drawTargets(s *core.Screen, p *puzzle.Puzzle, hint uuid.UUID) {
	for _, t := range p.Target {
		x, y := boardCell(t.Position)
		c := core.ColorGray
		if t.ID == hint {
			c = core.ColorYellow
		}
		s.SetColored(x+1, y+1, t.Shape.Glyph(), c)
	}
}

func drawPieces(s *core.Screen, p *puzzle.Puzzle, selected, hint uuid.UUID) {
	// The selected piece is drawn last so it stays visible on overlaps.
	order := make([]puzzle.Piece, 0, len(p.Arrangement))
	var sel *puzzle.Piece
	for i := range p.Arrangement {
		if p.Arrangement[i].ID == selected {
			sel = &p.Arrangement[i]
			continue
		}
		order = append(order, p.Arrangement[i])
	}
	if sel != nil {
		order = append(order, *sel)
	}

	for _, piece := range order {
		x, y := boardCell(piece.Position)
		x, y = x+1, y+1
		c := pieceColor(piece.Color)
		s.SetColored(x, y, piece.Shape.Glyph(), c)
		if piece.Shape.NeedsRotation() {
			s.SetColored(x+1, y, rotationArrow(piece.Rotation), c)
		}
		switch piece.ID {
		case selected:
			s.SetColored(x-1, y, '▸', core.ColorWhite)
		case hint:
			s.SetColored(x-1, y, '!', core.ColorYellow)
		}
	}
}

func drawHUD(s *core.Screen, x int, v BoardView) {
	snap := v.Snapshot
	s.DrawTextColored(x, 1, "COGNIFY QUEST", core.ColorWhite)

	difficulty := "-"
	if snap.Difficulty != "" {
		difficulty = snap.Difficulty.DisplayName()
	}
	s.DrawText(x, 3, fmt.Sprintf("Level      %d", snap.Level))
	s.DrawText(x, 4, fmt.Sprintf("Difficulty %s", difficulty))
	s.DrawText(x, 5, fmt.Sprintf("Score      %d", snap.Score))
	s.DrawText(x, 6, fmt.Sprintf("Streak     %d", snap.Streak))

	s.DrawText(x, 8, fmt.Sprintf("Time       %.0fs", math.Ceil(snap.TimeRemaining)))
	drawTimeBar(s, x, 9, hudWidth-2, snap.TimeRemaining, snap.TimeLimit)

	if p := snap.Puzzle; p != nil {
		if piece, ok := p.ArrangementPiece(snap.Selected); ok {
			s.DrawTextColored(x, 11, "Selected", core.ColorGray)
			s.SetColored(x+9, 11, piece.Shape.Glyph(), pieceColor(piece.Color))
			s.DrawText(x+11, 11, fmt.Sprintf("%s %.0f°", piece.Shape, core.WrapDegrees(piece.Rotation)))
		}
	}

	if v.Profile != nil {
		s.DrawText(x, 13, fmt.Sprintf("%s %s", v.Profile.AvatarEmoji, v.Profile.Username))
		s.DrawTextColored(x, 14, fmt.Sprintf("Best %d  Total %d", v.Profile.HighScore, v.Profile.TotalScore), core.ColorGray)
	}

	s.DrawTextColored(x, 16, "arrows move  r rotate", core.ColorGray)
	s.DrawTextColored(x, 17, "tab select  h hint", core.ColorGray)
	s.DrawTextColored(x, 18, "p pause  b menu  q quit", core.ColorGray)
}

func drawTimeBar(s *core.Screen, x, y, width int, remaining, limit float64) {
	if width <= 0 {
		return
	}
	ratio := 0.0
	if limit > 0 {
		ratio = core.ClampF(remaining/limit, 0, 1)
	}
	filled := int(math.Round(ratio * float64(width)))

	c := core.ColorGreen
	switch {
	case ratio <= 0.25:
		c = core.ColorRed
	case ratio <= 0.5:
		c = core.ColorYellow
	}
	s.DrawTextColored(x, y, strings.Repeat("█", filled), c)
	s.DrawTextColored(x+filled, y, strings.Repeat("░", width-filled), core.ColorGray)
}

// drawOverlay draws a centered box with lines inside frame.
func drawOverlay(s *core.Screen, frame core.Rect, c core.Color, lines ...string) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2
	box := core.NewRect(frame.X+(frame.W-w)/2, frame.Y+(frame.H-h)/2, w, h)

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			s.Set(x, y, ' ')
		}
	}
	s.DrawBox(box, c)
	for i, l := range lines {
		lx := box.X + (w-len([]rune(l)))/2
		s.DrawTextColored(lx, box.Y+1+i, l, c)
	}
}
