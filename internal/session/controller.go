package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

// Options configure a Controller.
type Options struct {
	// TickInterval is the countdown period. Zero disables the internal
	// timer; the caller then drives time with Tick.
	TickInterval time.Duration
	Rules        puzzle.Rules
	Scoring      Scoring
	Seed         int64
	// DefaultDifficulty is used when the profile has no valid preference.
	DefaultDifficulty puzzle.Difficulty
	Logger            *log.Logger
	// OnResult is called once per finished level, outside the session
	// lock, on the goroutine that finished the level.
	OnResult func(Result)
	Now      func() time.Time
}

// DefaultOptions returns options with a one second countdown and the
// standard rules.
func DefaultOptions() Options {
	return Options{
		TickInterval: time.Second,
		Rules:        puzzle.DefaultRules(),
		Scoring:      DefaultScoring(),
	}
}

// Controller owns one player's session state. Every mutation happens
// under a single mutex, so commands and countdown ticks never interleave.
type Controller struct {
	mu sync.Mutex

	opts    Options
	logger  *log.Logger
	gen     *puzzle.Generator
	matcher puzzle.Matcher
	board   core.Bounds
	prof    *profile.Profile

	state         State
	puzzle        *puzzle.Puzzle
	level         int
	score         int
	streak        int
	timeRemaining float64
	lastPoints    int
	streakBonus   int
	selected      uuid.UUID

	cancel context.CancelFunc
	closed bool
	// loops counts countdown goroutines and results counts finished levels
	// whose OnResult call has not returned. Close waits for both.
	loops   sync.WaitGroup
	results sync.WaitGroup

	subsMu sync.Mutex
	subs   []*Subscription
}

// New creates an idle controller for p. A nil profile gets a default one.
func New(p *profile.Profile, opts Options) *Controller {
	if p == nil {
		p = profile.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rules == (puzzle.Rules{}) {
		opts.Rules = puzzle.DefaultRules()
	}
	if opts.Scoring.PiecePoints == 0 && opts.Scoring.SecondPoints == 0 && len(opts.Scoring.StreakTiers) == 0 {
		opts.Scoring = DefaultScoring()
	}
	return &Controller{
		opts:    opts,
		logger:  opts.Logger,
		gen:     puzzle.NewGenerator(opts.Seed, opts.Rules.Layout),
		matcher: puzzle.NewMatcher(opts.Rules.Tolerances),
		board:   opts.Rules.Layout.Board(),
		prof:    p.Clone(),
		streak:  p.CurrentStreak,
	}
}

// Subscribe returns a subscription that receives an event after every
// state change. bufSize <= 0 selects a default buffer.
func (c *Controller) Subscribe(bufSize int) *Subscription {
	sub := newSubscription(bufSize)
	c.subsMu.Lock()
	c.subs = append(c.subs, sub)
	c.subsMu.Unlock()
	return sub
}

// Unsubscribe closes sub and stops delivering events to it.
func (c *Controller) Unsubscribe(sub *Subscription) {
	sub.Close()
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// StartNewGame generates a puzzle at the current level and starts the
// countdown. Any running level is discarded without a result.
func (c *Controller) StartNewGame(d puzzle.Difficulty) {
	c.mu.Lock()
	c.startLocked(d)
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
}

// StartNextLevel advances the level and starts a game at the preferred
// difficulty.
func (c *Controller) StartNextLevel() {
	c.mu.Lock()
	c.level++
	c.startLocked(c.preferredLocked())
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
}

// Retry restarts the current level at the same difficulty.
func (c *Controller) Retry() {
	c.mu.Lock()
	d := c.preferredLocked()
	if c.puzzle != nil {
		d = c.puzzle.Difficulty
	}
	c.startLocked(d)
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
}

// PreferredDifficulty returns the profile's preference, falling back to
// Options.DefaultDifficulty and then easy.
func (c *Controller) PreferredDifficulty() puzzle.Difficulty {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferredLocked()
}

func (c *Controller) preferredLocked() puzzle.Difficulty {
	if d := c.prof.Settings.DifficultyPreference; d.Valid() {
		return d
	}
	if c.opts.DefaultDifficulty.Valid() {
		return c.opts.DefaultDifficulty
	}
	return puzzle.DifficultyEasy
}

func (c *Controller) startLocked(d puzzle.Difficulty) {
	c.stopCountdownLocked()
	if c.level < 1 {
		c.level = 1
	}
	c.puzzle = c.gen.Generate(c.level, d)
	c.timeRemaining = c.puzzle.TimeLimit
	c.selected = c.puzzle.Arrangement[0].ID
	c.state = StateActive
	c.startCountdownLocked()
	c.logger.Info("level started",
		"level", c.level,
		"difficulty", c.puzzle.Difficulty,
		"pieces", c.puzzle.PieceCount(),
		"time_limit", c.puzzle.TimeLimit,
	)
}

// Pause stops the countdown. Commands are still accepted while paused
// but the solved check waits until Resume.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	c.stopCountdownLocked()
	c.state = StatePaused
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
}

// Resume restarts the countdown and checks for a solution made while
// paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		return
	}
	c.state = StateActive
	c.startCountdownLocked()
	var evts []Event
	if c.matcher.IsSolved(c.puzzle) {
		evts = c.finishLocked(true)
	}
	evts = append(evts, c.snapshotEventLocked()...)
	c.mu.Unlock()
	c.emit(evts)
}

// TogglePause switches between Active and Paused.
func (c *Controller) TogglePause() {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	switch st {
	case StateActive:
		c.Pause()
	case StatePaused:
		c.Resume()
	}
}

// Tick advances the countdown by one second. It is a no-op unless the
// session is Active. The internal timer instead advances by TickInterval
// on every period.
func (c *Controller) Tick() {
	c.tick(nil, 1)
}

func (c *Controller) tick(ctx context.Context, seconds float64) {
	c.mu.Lock()
	// A tick that raced with a stop belongs to a cancelled countdown.
	if ctx != nil && ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}

	c.timeRemaining -= seconds
	var evts []Event
	switch {
	case c.matcher.IsSolved(c.puzzle):
		evts = c.finishLocked(true)
	case c.timeRemaining <= 0:
		c.timeRemaining = 0
		evts = c.finishLocked(false)
	default:
		c.logMismatchesLocked()
	}
	evts = append(evts, c.snapshotEventLocked()...)
	c.mu.Unlock()
	c.emit(evts)
}

// MovePiece moves the piece with id to pos, applies snapping and checks
// for a solution. Positions are clamped to the board. It reports whether
// the command was applied.
func (c *Controller) MovePiece(id uuid.UUID, pos core.Point) bool {
	return c.mutatePiece(id, func(p *puzzle.Piece) bool {
		p.Position = c.board.Clamp(pos)
		return true
	})
}

// NudgePiece moves the piece with id by (dx, dy), stopping at the board
// edge.
func (c *Controller) NudgePiece(id uuid.UUID, dx, dy float64) bool {
	return c.mutatePiece(id, func(p *puzzle.Piece) bool {
		p.Position = c.board.Clamp(p.Position.Add(dx, dy))
		return true
	})
}

// RotatePiece turns the piece with id by 45 degrees. Rotation-invariant
// pieces are left untouched.
func (c *Controller) RotatePiece(id uuid.UUID) bool {
	return c.mutatePiece(id, func(p *puzzle.Piece) bool {
		if p.Shape.IsRotationInvariant() {
			return false
		}
		p.Rotation = core.WrapDegrees(p.Rotation + 45)
		return true
	})
}

func (c *Controller) mutatePiece(id uuid.UUID, fn func(*puzzle.Piece) bool) bool {
	c.mu.Lock()
	if c.state != StateActive && c.state != StatePaused {
		c.mu.Unlock()
		return false
	}
	i := c.puzzle.ArrangementIndex(id)
	target, ok := c.puzzle.TargetPiece(id)
	if i < 0 || !ok {
		c.mu.Unlock()
		return false
	}

	piece := &c.puzzle.Arrangement[i]
	if !fn(piece) {
		c.mu.Unlock()
		return false
	}
	c.selected = id

	if snap := c.matcher.TrySnap(*piece, target); snap.Snapped {
		piece.Position = snap.Position
		piece.Rotation = snap.Rotation
		c.logger.Debug("piece snapped", "shape", piece.Shape, "id", id)
	}

	var evts []Event
	if c.state == StateActive && c.matcher.IsSolved(c.puzzle) {
		evts = c.finishLocked(true)
	}
	evts = append(evts, c.snapshotEventLocked()...)
	c.mu.Unlock()
	c.emit(evts)
	return true
}

// SelectPiece marks id as the selected piece. Unknown ids are ignored.
func (c *Controller) SelectPiece(id uuid.UUID) bool {
	c.mu.Lock()
	if c.puzzle == nil || c.puzzle.ArrangementIndex(id) < 0 {
		c.mu.Unlock()
		return false
	}
	c.selected = id
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
	return true
}

// SelectNext moves the selection by step through the arrangement order,
// wrapping at both ends, and returns the new selection.
func (c *Controller) SelectNext(step int) uuid.UUID {
	c.mu.Lock()
	if c.puzzle == nil || len(c.puzzle.Arrangement) == 0 {
		c.mu.Unlock()
		return uuid.Nil
	}
	n := len(c.puzzle.Arrangement)
	i := c.puzzle.ArrangementIndex(c.selected)
	if i < 0 {
		i = 0
	} else {
		i = ((i+step)%n + n) % n
	}
	c.selected = c.puzzle.Arrangement[i].ID
	id := c.selected
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
	return id
}

// Selected returns the selected piece id.
func (c *Controller) Selected() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Hint returns the first target piece that is still far from its
// position. It is advisory only.
func (c *Controller) Hint() (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive && c.state != StatePaused {
		return uuid.Nil, false
	}
	return c.matcher.Hint(c.puzzle)
}

// Acknowledge returns a finished session (Won or Lost) to Idle. The level
// and score are kept so StartNextLevel or Retry can continue the run.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	if c.state != StateWon && c.state != StateLost {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.puzzle = nil
	c.selected = uuid.Nil
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
}

// ResetGame stops the countdown and clears level, score and puzzle.
func (c *Controller) ResetGame() {
	c.mu.Lock()
	c.stopCountdownLocked()
	c.state = StateIdle
	c.puzzle = nil
	c.level = 0
	c.score = 0
	c.timeRemaining = 0
	c.lastPoints = 0
	c.streakBonus = 0
	c.selected = uuid.Nil
	evts := c.snapshotEventLocked()
	c.mu.Unlock()
	c.emit(evts)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Puzzle returns a copy of the current puzzle, or nil when idle.
func (c *Controller) Puzzle() *puzzle.Puzzle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puzzle.Clone()
}

// Profile returns a copy of the session's profile.
func (c *Controller) Profile() *profile.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prof.Clone()
}

// UpdateSettings applies fn to the profile settings.
func (c *Controller) UpdateSettings(fn func(*profile.Settings)) {
	c.mu.Lock()
	fn(&c.prof.Settings)
	c.mu.Unlock()
}

// Close stops the countdown and ends all subscriptions. It returns once
// the countdown goroutine has exited and every pending OnResult call has
// returned; levels finished after Close report no result. Close must not
// be called from OnResult.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopCountdownLocked()
	c.mu.Unlock()

	c.loops.Wait()
	c.results.Wait()

	c.subsMu.Lock()
	subs := c.subs
	c.subs = nil
	c.subsMu.Unlock()
	for _, s := range subs {
		s.Close()
	}
}

// finishLocked applies the win or loss transition exactly once per level.
func (c *Controller) finishLocked(success bool) []Event {
	if c.state != StateActive {
		return nil
	}
	c.stopCountdownLocked()

	now := c.opts.Now()
	p := c.puzzle
	elapsed := time.Duration((p.TimeLimit - c.timeRemaining) * float64(time.Second))
	res := Result{
		Success:       success,
		Level:         c.level,
		Difficulty:    p.Difficulty,
		PieceCount:    p.PieceCount(),
		TimeRemaining: c.timeRemaining,
		Elapsed:       elapsed,
		FinishedAt:    now,
	}

	if success {
		res.Points = c.opts.Scoring.LevelScore(p.PieceCount(), c.timeRemaining, c.level)
		c.prof.UpdateScore(res.Points)
		c.prof.CompleteLevel(now)
		res.StreakBonus = c.opts.Scoring.StreakBonus(c.prof.CurrentStreak)
		c.prof.AddBonus(res.StreakBonus)
		c.prof.RecordPlayTime(elapsed, true, c.timeRemaining >= p.TimeLimit/2)
		c.score += res.Total()
		c.state = StateWon
		c.logger.Info("level won",
			"level", c.level,
			"points", res.Points,
			"streak", c.prof.CurrentStreak,
			"bonus", res.StreakBonus,
		)
	} else {
		c.prof.FailLevel(now)
		c.prof.RecordPlayTime(elapsed, false, false)
		c.state = StateLost
		c.logger.Info("level lost", "level", c.level, "pieces_off", len(c.matcher.Mismatches(p)))
	}

	c.streak = c.prof.CurrentStreak
	c.lastPoints = res.Points
	c.streakBonus = res.StreakBonus
	if c.closed {
		return nil
	}
	res.Profile = c.prof.Clone()
	c.results.Add(1)
	return []Event{ResultEvent{Result: res}}
}

func (c *Controller) logMismatchesLocked() {
	if c.logger.GetLevel() > log.DebugLevel {
		return
	}
	for _, mm := range c.matcher.Mismatches(c.puzzle) {
		c.logger.Debug("piece not matched", "reason", mm.Reason, "detail", mm.String())
	}
}

func (c *Controller) startCountdownLocked() {
	if c.opts.TickInterval <= 0 || c.closed {
		return
	}
	c.stopCountdownLocked()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.loops.Add(1)
	go c.runCountdown(ctx, c.opts.TickInterval)
}

// stopCountdownLocked is idempotent.
func (c *Controller) stopCountdownLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) runCountdown(ctx context.Context, interval time.Duration) {
	defer c.loops.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	seconds := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx, seconds)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:         c.state,
		Level:         c.level,
		Score:         c.score,
		TimeRemaining: c.timeRemaining,
		Streak:        c.streak,
		LastPoints:    c.lastPoints,
		StreakBonus:   c.streakBonus,
		Selected:      c.selected,
	}
	if c.puzzle != nil {
		s.Puzzle = c.puzzle.Clone()
		s.TimeLimit = c.puzzle.TimeLimit
		s.Difficulty = c.puzzle.Difficulty
	}
	return s
}

func (c *Controller) snapshotEventLocked() []Event {
	return []Event{SnapshotEvent{Snapshot: c.snapshotLocked()}}
}

// emit delivers events to the result callback and subscribers. It must be
// called without holding c.mu.
func (c *Controller) emit(evts []Event) {
	if len(evts) == 0 {
		return
	}
	c.subsMu.Lock()
	subs := append([]*Subscription(nil), c.subs...)
	c.subsMu.Unlock()

	for _, evt := range evts {
		if r, ok := evt.(ResultEvent); ok {
			if c.opts.OnResult != nil {
				c.opts.OnResult(r.Result)
			}
			c.results.Done()
		}
		for _, s := range subs {
			s.send(evt)
		}
	}
}
