package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/session"
)

const (
	redrawRate      = 4 // frames per second between session events
	statusLifetime  = 3 * time.Second
	defaultMoveStep = 10.0
)

// GameModel is the Bubble Tea model for the puzzle board. It forwards
// keys to a session controller and redraws from its snapshots.
type GameModel struct {
	ctrl      *session.Controller
	sub       *session.Subscription
	screen    *core.Screen
	keyMapper *KeyMapper
	config    core.RuntimeConfig
	moveStep  float64

	snap     session.Snapshot
	prof     *profile.Profile
	hint     uuid.UUID
	hintFor  uuid.UUID // puzzle the hint belongs to
	status   string
	statusAt time.Time

	quitting  bool
	goingBack bool
}

// NewGameModel creates a board model for ctrl. The subscription is owned
// by the model and released by Close.
func NewGameModel(ctrl *session.Controller, cfg core.RuntimeConfig, moveStep float64) GameModel {
	if moveStep <= 0 {
		moveStep = defaultMoveStep
	}
	w, h := max(cfg.ScreenW, ScreenWidth), max(cfg.ScreenH, ScreenHeight)
	return GameModel{
		ctrl:      ctrl,
		sub:       ctrl.Subscribe(0),
		screen:    core.NewScreen(w, h),
		keyMapper: NewKeyMapper(),
		config:    cfg,
		moveStep:  moveStep,
		snap:      ctrl.Snapshot(),
		prof:      ctrl.Profile(),
	}
}

// Init starts listening for session events and the redraw loop.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.sub), tickCmd(redrawRate))
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(max(msg.Width, ScreenWidth), max(msg.Height, ScreenHeight))
		return m, nil

	case sessionEventMsg:
		m.applyEvent(msg.event)
		return m, waitForEvent(m.sub)

	case subscriptionClosedMsg:
		return m, nil

	case TickMsg:
		if m.status != "" && time.Time(msg).Sub(m.statusAt) > statusLifetime {
			m.status = ""
		}
		return m, tickCmd(redrawRate)
	}

	return m, nil
}

func (m *GameModel) applyEvent(evt session.Event) {
	switch e := evt.(type) {
	case session.SnapshotEvent:
		m.setSnapshot(e.Snapshot)
	case session.ResultEvent:
		m.prof = e.Result.Profile
		if e.Result.Success {
			m.setStatus(fmt.Sprintf("solved in %.1fs", e.Result.Elapsed.Seconds()))
		}
	}
}

func (m *GameModel) setSnapshot(s session.Snapshot) {
	m.snap = s
	if s.Puzzle == nil || s.Puzzle.ID != m.hintFor {
		m.hint = uuid.Nil
	}
}

func (m *GameModel) setStatus(s string) {
	m.status = s
	m.statusAt = time.Now()
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.snap.Selected
	switch action {
	case core.ActionBack:
		m.goingBack = true
		return m, nil

	case core.ActionPause:
		m.ctrl.TogglePause()

	case core.ActionConfirm:
		switch m.snap.State {
		case session.StateWon:
			m.ctrl.StartNextLevel()
		case session.StateLost:
			m.ctrl.Retry()
		case session.StateIdle:
			m.ctrl.StartNewGame(m.ctrl.PreferredDifficulty())
		}

	case core.ActionRotate:
		m.ctrl.RotatePiece(selected)

	case core.ActionNextPiece:
		m.ctrl.SelectNext(1)

	case core.ActionPrevPiece:
		m.ctrl.SelectNext(-1)

	case core.ActionHint:
		m.showHint()

	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		dx, dy := action.Delta(m.moveStep)
		m.ctrl.NudgePiece(selected, dx, dy)

	default:
		return m, nil
	}

	// Redraw right away instead of waiting for the event round trip.
	m.setSnapshot(m.ctrl.Snapshot())
	return m, nil
}

func (m *GameModel) showHint() {
	if m.prof != nil && !m.prof.Settings.ShowHints {
		m.setStatus("hints are turned off")
		return
	}
	id, ok := m.ctrl.Hint()
	if !ok {
		m.setStatus("every piece is close, check rotations")
		return
	}
	m.hint = id
	if m.snap.Puzzle != nil {
		m.hintFor = m.snap.Puzzle.ID
		if t, found := m.snap.Puzzle.TargetPiece(id); found {
			m.setStatus(fmt.Sprintf("hint: move the %s", t.Shape))
		}
	}
}

// View renders the board.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	DrawBoard(m.screen, BoardView{
		Snapshot: m.snap,
		Profile:  m.prof,
		Hint:     m.hint,
		Status:   m.status,
	})
	return RenderScreen(m.screen)
}

// Close releases the model's subscription.
func (m GameModel) Close() {
	m.ctrl.Unsubscribe(m.sub)
}

// IsQuitting returns true if user requested to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// WantsMenu returns true if user asked to go back to the menu.
func (m GameModel) WantsMenu() bool {
	return m.goingBack
}
