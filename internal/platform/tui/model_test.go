package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/config"
	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/session"
)

// newTestGame returns a board model over a controller without a timer.
func newTestGame(t *testing.T) (GameModel, *session.Controller) {
	t.Helper()
	ctrl := session.New(profile.New("ada"), session.Options{Seed: 7})
	t.Cleanup(ctrl.Close)
	ctrl.StartNewGame(puzzle.DifficultyEasy)
	m := NewGameModel(ctrl, core.DefaultConfig(), 10)
	t.Cleanup(m.Close)
	return m, ctrl
}

func press(t *testing.T, m GameModel, msg tea.KeyMsg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return gm
}

func TestGameModelPause(t *testing.T) {
	m, ctrl := newTestGame(t)

	m = press(t, m, runeKey('p'))
	if got := ctrl.Snapshot().State; got != session.StatePaused {
		t.Fatalf("state after p = %s, expected paused", got)
	}
	if m.snap.State != session.StatePaused {
		t.Errorf("model snapshot not refreshed: %s", m.snap.State)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show the pause overlay")
	}

	press(t, m, runeKey('p'))
	if got := ctrl.Snapshot().State; got != session.StateActive {
		t.Errorf("state after second p = %s, expected active", got)
	}
}

func TestGameModelSelection(t *testing.T) {
	m, ctrl := newTestGame(t)
	p := ctrl.Puzzle()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := ctrl.Selected(); got != p.Arrangement[1].ID {
		t.Errorf("tab selected %s, expected second piece", got)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := ctrl.Selected(); got != p.Arrangement[0].ID {
		t.Errorf("shift+tab selected %s, expected first piece", got)
	}
}

func TestGameModelRetryAfterLoss(t *testing.T) {
	m, ctrl := newTestGame(t)
	for range 45 {
		ctrl.Tick()
	}
	if got := ctrl.Snapshot().State; got != session.StateLost {
		t.Fatalf("state = %s, expected lost", got)
	}

	m.setSnapshot(ctrl.Snapshot())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	snap := ctrl.Snapshot()
	if snap.State != session.StateActive || snap.Level != 1 || snap.TimeRemaining != 45 {
		t.Errorf("after retry: %+v", snap)
	}
	if m.snap.State != session.StateActive {
		t.Errorf("model state = %s", m.snap.State)
	}
}

func TestGameModelHint(t *testing.T) {
	m, ctrl := newTestGame(t)
	m = press(t, m, runeKey('h'))

	id, ok := ctrl.Hint()
	if !ok {
		t.Skip("generated puzzle has no far piece")
	}
	if m.hint != id {
		t.Errorf("hint = %s, expected %s", m.hint, id)
	}
	if !strings.HasPrefix(m.status, "hint: move the ") {
		t.Errorf("status = %q", m.status)
	}

	// A new puzzle clears the hint.
	ctrl.Retry()
	m.setSnapshot(ctrl.Snapshot())
	if m.hint != uuid.Nil {
		t.Error("hint should reset with a new puzzle")
	}
}

func TestGameModelHintsDisabled(t *testing.T) {
	m, _ := newTestGame(t)
	m.prof.Settings.ShowHints = false
	m = press(t, m, runeKey('h'))
	if m.hint != uuid.Nil || m.status != "hints are turned off" {
		t.Errorf("hint = %s, status = %q", m.hint, m.status)
	}
}

func TestGameModelSessionEvents(t *testing.T) {
	m, ctrl := newTestGame(t)
	ctrl.Pause()

	next, cmd := m.Update(sessionEventMsg{event: session.SnapshotEvent{Snapshot: ctrl.Snapshot()}})
	m = next.(GameModel)
	if m.snap.State != session.StatePaused {
		t.Errorf("state = %s after snapshot event", m.snap.State)
	}
	if cmd == nil {
		t.Error("model should keep waiting for events")
	}

	won := session.Result{Success: true, Profile: profile.New("grace")}
	next, _ = m.Update(sessionEventMsg{event: session.ResultEvent{Result: won}})
	m = next.(GameModel)
	if m.prof.Username != "grace" {
		t.Errorf("profile not updated from result: %s", m.prof.Username)
	}
}

func TestGameModelBackAndQuit(t *testing.T) {
	m, _ := newTestGame(t)

	back := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.WantsMenu() || back.IsQuitting() {
		t.Error("esc should request the menu")
	}

	next, cmd := m.Update(runeKey('q'))
	if !next.(GameModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestAppModelFlow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.TickInterval = 0
	app := NewApp(Deps{Config: cfg, Seed: 3}, profile.New("ada"))
	t.Cleanup(app.Close)

	var m tea.Model = app.Model(core.DefaultConfig())
	if !strings.Contains(m.View(), "Choose a difficulty") {
		t.Fatal("app should start on the menu")
	}

	// Pick medium: one step down from the easy preference.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	am := m.(AppModel)
	if am.screen != screenGame {
		t.Fatalf("screen = %d, expected game", am.screen)
	}
	snap := app.Controller().Snapshot()
	if snap.State != session.StateActive || snap.Difficulty != puzzle.DifficultyMedium {
		t.Errorf("snapshot = %s/%s", snap.State, snap.Difficulty)
	}
	if got := app.Controller().Profile().Settings.DifficultyPreference; got != puzzle.DifficultyMedium {
		t.Errorf("preference = %s, expected medium", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	am = m.(AppModel)
	if am.screen != screenMenu {
		t.Errorf("screen = %d, expected menu", am.screen)
	}
	if got := app.Controller().Snapshot().State; got != session.StateIdle {
		t.Errorf("leaving the board should reset the session, state = %s", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	am = m.(AppModel)
	if am.screen != screenScores {
		t.Errorf("screen = %d, expected scores", am.screen)
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("scoreboard without a store should be empty")
	}
}

func TestAppModelConfiguredDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.TickInterval = 0
	cfg.Session.DefaultDifficulty = "hard"
	app := NewApp(Deps{Config: cfg, Seed: 3}, profile.New("ada"))
	t.Cleanup(app.Close)

	var m tea.Model = app.Model(core.DefaultConfig())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if snap := app.Controller().Snapshot(); snap.Difficulty != puzzle.DifficultyHard {
		t.Errorf("menu should open on the configured default, started %s", snap.Difficulty)
	}
}

func TestAppModelAt(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Session.TickInterval = 0
	app := NewApp(Deps{Config: cfg, Seed: 3}, profile.New("ada"))
	t.Cleanup(app.Close)

	m := app.ModelAt(core.DefaultConfig(), puzzle.DifficultyHard)
	if m.screen != screenGame || m.Init() == nil {
		t.Fatalf("screen = %d, expected the board", m.screen)
	}
	snap := app.Controller().Snapshot()
	if snap.Difficulty != puzzle.DifficultyHard || snap.Puzzle.PieceCount() != 7 {
		t.Errorf("snapshot = %s with %d pieces", snap.Difficulty, snap.Puzzle.PieceCount())
	}
}
