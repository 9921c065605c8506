package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cognify-quest/internal/cloudsync"
	"github.com/vovakirdan/cognify-quest/internal/config"
	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/session"
	"github.com/vovakirdan/cognify-quest/internal/storage"
)

// syncTimeout bounds the profile sync done before a session starts.
const syncTimeout = 5 * time.Second

// Deps are the shared services a front end session runs with. Store and
// Syncer may be nil; the game then runs without persistence.
type Deps struct {
	Store  *storage.Store
	Syncer *cloudsync.Syncer
	Config config.Config
	Logger *log.Logger
	// Seed fixes puzzle generation. Zero picks a time based seed.
	Seed int64
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// LoadProfile loads or creates the profile for username and reconciles it
// with the remote copy when one is reachable.
func LoadProfile(deps Deps, username string) (*profile.Profile, error) {
	if deps.Store == nil {
		return profile.New(username), nil
	}
	p, err := deps.Store.LoadOrCreateProfile(username)
	if err != nil {
		return nil, err
	}
	if deps.Syncer == nil {
		return p, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	merged, err := deps.Syncer.Sync(ctx, p)
	if err != nil {
		deps.logger().Warn("profile sync failed, playing with the local copy", "user", username, "err", err)
	}
	if merged != p {
		if err := deps.Store.SaveProfile(merged); err != nil {
			return p, err
		}
		deps.logger().Info("profile updated from remote", "user", username)
	}
	return merged, nil
}

// App owns one player's session controller and wires its results to
// storage and sync.
type App struct {
	deps Deps
	ctrl *session.Controller
}

// NewApp creates an app for prof.
func NewApp(deps Deps, prof *profile.Profile) *App {
	a := &App{deps: deps}
	opts := deps.Config.SessionOptions()
	opts.Seed = deps.Seed
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	opts.Logger = deps.logger()
	opts.OnResult = a.recordResult
	a.ctrl = session.New(prof, opts)
	return a
}

// Controller returns the app's session controller.
func (a *App) Controller() *session.Controller {
	return a.ctrl
}

func (a *App) recordResult(r session.Result) {
	logger := a.deps.logger()
	if a.deps.Store != nil {
		if err := a.deps.Store.RecordResult(r); err != nil {
			logger.Error("cannot record result", "level", r.Level, "err", err)
		}
	}
	a.deps.Syncer.PushAsync(r.Profile)
}

// saveProfile persists the controller's profile. Failures are logged.
func (a *App) saveProfile() {
	if a.deps.Store == nil {
		return
	}
	if err := a.deps.Store.SaveProfile(a.ctrl.Profile()); err != nil {
		a.deps.logger().Error("cannot save profile", "err", err)
	}
}

// selectDifficulty stores d as the preferred difficulty and starts a
// fresh run at it.
func (a *App) selectDifficulty(d puzzle.Difficulty) {
	a.ctrl.UpdateSettings(func(s *profile.Settings) {
		s.DifficultyPreference = d
	})
	a.saveProfile()
	a.ctrl.ResetGame()
	a.ctrl.StartNewGame(d)
}

// Close stops the session, saves the profile and waits for pending
// pushes.
func (a *App) Close() {
	a.ctrl.Close()
	a.saveProfile()
	a.deps.Syncer.Wait()
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenScores
)

// AppModel manages the full flow: menu -> board -> menu, plus the
// scoreboard. It is the top-level model for local and SSH sessions.
type AppModel struct {
	app      *App
	config   core.RuntimeConfig
	screen   appScreen
	menu     MenuModel
	game     GameModel
	scores   ScoreboardModel
	quitting bool
}

// Model creates the top-level Bubble Tea model for the app.
func (a *App) Model(cfg core.RuntimeConfig) AppModel {
	return AppModel{
		app:    a,
		config: cfg,
		menu:   NewMenuModel(a.ctrl.Profile(), a.ctrl.PreferredDifficulty(), cfg),
	}
}

// ModelAt creates the top-level model with a run at d already started,
// skipping the menu.
func (a *App) ModelAt(cfg core.RuntimeConfig, d puzzle.Difficulty) AppModel {
	m := a.Model(cfg)
	a.selectDifficulty(d)
	m.game = NewGameModel(a.ctrl, cfg, a.deps.Config.Session.MoveStep)
	m.screen = screenGame
	return m
}

// Init initializes the model.
func (m AppModel) Init() tea.Cmd {
	if m.screen == screenGame {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the current screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.Selected() != nil:
		m.app.selectDifficulty(*m.menu.Selected())
		m.game = NewGameModel(m.app.ctrl, m.config, m.app.deps.Config.Session.MoveStep)
		m.screen = screenGame
		return m, m.game.Init()

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.app.deps.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, m.scores.Init()
	}

	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newGame, cmd := m.game.Update(msg)
	if gameModel, ok := newGame.(GameModel); ok {
		m.game = gameModel
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.game.WantsMenu():
		m.game.Close()
		m.app.ctrl.ResetGame()
		m.toMenu()
		return m, nil
	}

	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if scoresModel, ok := newScores.(ScoreboardModel); ok {
		m.scores = scoresModel
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.scores.IsGoingBack():
		m.toMenu()
		return m, nil
	}

	return m, cmd
}

func (m *AppModel) toMenu() {
	m.menu = NewMenuModel(m.app.ctrl.Profile(), m.app.ctrl.PreferredDifficulty(), m.config)
	m.screen = screenMenu
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Run starts the app in the local terminal and blocks until the player
// quits. A valid start difficulty skips the menu.
func Run(app *App, cfg core.RuntimeConfig, start puzzle.Difficulty) error {
	defer app.Close()

	model := app.Model(cfg)
	if start.Valid() {
		model = app.ModelAt(cfg, start)
	}
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
