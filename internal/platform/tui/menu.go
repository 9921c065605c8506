package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cognify-quest/internal/config"
	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(string(puzzle.ColorSecondary)))
	menuMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items          []config.DifficultyInfo
	cursor         int
	width          int
	height         int
	prof           *profile.Profile
	keyMapper      *KeyMapper
	quitting       bool
	selected       *puzzle.Difficulty // Set when user picks a difficulty
	openScoreboard bool               // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model with the cursor on preferred.
func NewMenuModel(prof *profile.Profile, preferred puzzle.Difficulty, cfg core.RuntimeConfig) MenuModel {
	items := config.Difficulties()
	cursor := 0
	for i, it := range items {
		if it.Difficulty == preferred {
			cursor = i
		}
	}
	return MenuModel{
		items:     items,
		cursor:    cursor,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		prof:      prof,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			d := m.items[m.cursor].Difficulty
			m.selected = &d
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("C O G N I F Y   Q U E S T"), m.width))
	b.WriteString("\n\n")

	if m.prof != nil {
		greeting := fmt.Sprintf("%s %s  best %d  streak %d", m.prof.AvatarEmoji, m.prof.Username, m.prof.HighScore, m.prof.CurrentStreak)
		b.WriteString(centerText(menuMutedStyle.Render(greeting), m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText("Choose a difficulty", m.width))
	b.WriteString("\n\n")

	for i, it := range m.items {
		line := fmt.Sprintf("%-7s %d pieces  %3.0fs", it.Difficulty.DisplayName(), it.Pieces, it.TimeLimit)
		if i == m.cursor {
			line = menuSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuMutedStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen difficulty, or nil if none selected.
func (m MenuModel) Selected() *puzzle.Difficulty {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text within given width. Styled text is measured
// without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
