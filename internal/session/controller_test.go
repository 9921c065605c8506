package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

// resultLog collects results delivered through Options.OnResult.
type resultLog struct {
	mu      sync.Mutex
	results []Result
}

func (l *resultLog) add(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

func (l *resultLog) all() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.results...)
}

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// newManual returns a controller without an internal timer.
func newManual(t *testing.T, p *profile.Profile) (*Controller, *resultLog) {
	t.Helper()
	log := &resultLog{}
	c := New(p, Options{
		Seed:     42,
		OnResult: log.add,
		Now:      func() time.Time { return fixedNow },
	})
	t.Cleanup(c.Close)
	return c, log
}

// solve rotates every piece close to upright and drops it on its target.
func solve(c *Controller) {
	p := c.Puzzle()
	for _, t := range p.Target {
		cur, _ := c.Puzzle().ArrangementPiece(t.ID)
		for k := 0; k < 8 && t.Shape.NeedsRotation() && puzzle.RotationDistance(cur.Rotation, t.Rotation) > 22.5; k++ {
			c.RotatePiece(t.ID)
			cur, _ = c.Puzzle().ArrangementPiece(t.ID)
		}
		c.MovePiece(t.ID, t.Position)
	}
}

func findShape(p *puzzle.Puzzle, s puzzle.Shape) (puzzle.Piece, bool) {
	for _, a := range p.Arrangement {
		if a.Shape == s {
			return a, true
		}
	}
	return puzzle.Piece{}, false
}

func TestScoring(t *testing.T) {
	s := DefaultScoring()

	if got := s.LevelScore(3, 10, 2); got != 800 {
		t.Errorf("LevelScore(3, 10, 2) = %d, expected 800", got)
	}
	if got := s.LevelScore(5, 12.9, 1); got != 620 {
		t.Errorf("LevelScore(5, 12.9, 1) = %d, expected 620", got)
	}
	if got := s.LevelScore(3, -2, 1); got != 300 {
		t.Errorf("LevelScore with negative time = %d, expected 300", got)
	}

	tests := []struct {
		streak, expected int
	}{
		{0, 0},
		{2, 0},
		{3, 100},
		{4, 100},
		{5, 250},
		{9, 250},
		{10, 500},
		{42, 500},
	}
	for _, tc := range tests {
		if got := s.StreakBonus(tc.streak); got != tc.expected {
			t.Errorf("StreakBonus(%d) = %d, expected %d", tc.streak, got, tc.expected)
		}
	}
}

func TestWinExactlyOnce(t *testing.T) {
	c, results := newManual(t, profile.New("ada"))
	c.StartNewGame(puzzle.DifficultyMedium)

	snap := c.Snapshot()
	if snap.State != StateActive {
		t.Fatalf("State = %s, expected active", snap.State)
	}
	if snap.TimeLimit != 50 || snap.TimeRemaining != 50 {
		t.Fatalf("time limit/remaining = %v/%v, expected 50/50", snap.TimeLimit, snap.TimeRemaining)
	}
	if snap.Puzzle.PieceCount() != 5 {
		t.Fatalf("PieceCount = %d, expected 5", snap.Puzzle.PieceCount())
	}

	solve(c)

	if st := c.Snapshot().State; st != StateWon {
		t.Fatalf("State = %s, expected won", st)
	}

	// Further commands and ticks must not produce another result.
	c.Tick()
	solve(c)
	c.Resume()

	got := results.all()
	if len(got) != 1 {
		t.Fatalf("got %d results, expected 1", len(got))
	}
	r := got[0]
	if !r.Success || r.Points != 1000 || r.StreakBonus != 0 {
		t.Errorf("result = %+v, expected success with 1000 points", r)
	}
	if r.Profile.LevelsCompleted != 1 || r.Profile.CurrentStreak != 1 || r.Profile.Statistics.GamesWon != 1 {
		t.Errorf("profile not updated: %+v", r.Profile)
	}
	if r.Profile.Statistics.PerfectGames != 1 {
		t.Errorf("PerfectGames = %d, expected 1", r.Profile.Statistics.PerfectGames)
	}
	if c.Snapshot().Score != 1000 {
		t.Errorf("Score = %d, expected 1000", c.Snapshot().Score)
	}
}

func TestLossExactlyOnce(t *testing.T) {
	p := profile.New("ada")
	p.CurrentStreak = 4
	p.LongestStreak = 6
	c, results := newManual(t, p)
	c.StartNewGame(puzzle.DifficultyEasy)

	for i := 0; i < 44; i++ {
		c.Tick()
	}
	if st := c.Snapshot().State; st != StateActive {
		t.Fatalf("State after 44 ticks = %s, expected active", st)
	}

	c.Tick()
	snap := c.Snapshot()
	if snap.State != StateLost {
		t.Fatalf("State = %s, expected lost", snap.State)
	}
	if snap.TimeRemaining != 0 {
		t.Errorf("TimeRemaining = %v, expected 0", snap.TimeRemaining)
	}

	for i := 0; i < 5; i++ {
		c.Tick()
	}

	got := results.all()
	if len(got) != 1 {
		t.Fatalf("got %d results, expected 1", len(got))
	}
	r := got[0]
	if r.Success || r.Points != 0 || r.StreakBonus != 0 {
		t.Errorf("result = %+v, expected failure with no points", r)
	}
	if r.Profile.CurrentStreak != 0 || r.Profile.LongestStreak != 6 {
		t.Errorf("streak/longest = %d/%d, expected 0/6", r.Profile.CurrentStreak, r.Profile.LongestStreak)
	}
	if r.Profile.Statistics.GamesPlayed != 1 || r.Profile.Statistics.GamesWon != 0 {
		t.Errorf("games played/won = %d/%d", r.Profile.Statistics.GamesPlayed, r.Profile.Statistics.GamesWon)
	}
	if r.Elapsed != 45*time.Second {
		t.Errorf("Elapsed = %v, expected 45s", r.Elapsed)
	}
	if snap.Streak != 0 {
		t.Errorf("session streak = %d, expected 0", snap.Streak)
	}
}

func TestStreakBonusAndNextLevel(t *testing.T) {
	p := profile.New("ada")
	p.CurrentStreak = 2
	c, results := newManual(t, p)

	c.StartNewGame(puzzle.DifficultyEasy)
	solve(c)

	r := results.all()[0]
	// Level 1, easy, 45s left: (300 + 450) * 1.
	if r.Points != 750 || r.StreakBonus != 100 {
		t.Fatalf("points/bonus = %d/%d, expected 750/100", r.Points, r.StreakBonus)
	}
	if r.Profile.TotalScore != 850 || r.Profile.HighScore != 750 {
		t.Errorf("profile total/high = %d/%d, expected 850/750", r.Profile.TotalScore, r.Profile.HighScore)
	}

	c.StartNextLevel()
	snap := c.Snapshot()
	if snap.Level != 2 || snap.Difficulty != puzzle.DifficultyEasy {
		t.Fatalf("level/difficulty = %d/%s, expected 2/easy", snap.Level, snap.Difficulty)
	}

	for i := 0; i < 35; i++ {
		c.Tick()
	}
	solve(c)

	all := results.all()
	if len(all) != 2 {
		t.Fatalf("got %d results, expected 2", len(all))
	}
	r = all[1]
	if r.Points != 800 {
		t.Errorf("level 2 points = %d, expected 800", r.Points)
	}
	if r.StreakBonus != 100 {
		t.Errorf("streak 4 bonus = %d, expected 100", r.StreakBonus)
	}
	if got := c.Snapshot().Score; got != 750+100+800+100 {
		t.Errorf("session score = %d, expected 1750", got)
	}
	if c.Profile().LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, expected 4", c.Profile().LongestStreak)
	}
}

func TestRotatePiece(t *testing.T) {
	c, _ := newManual(t, nil)
	c.StartNewGame(puzzle.DifficultyExpert)
	p := c.Puzzle()

	circle, ok := findShape(p, puzzle.ShapeCircle)
	if !ok {
		t.Fatal("expert puzzle should contain a circle")
	}
	if c.RotatePiece(circle.ID) {
		t.Error("rotating a circle should be a no-op")
	}
	after, _ := c.Puzzle().ArrangementPiece(circle.ID)
	if after != circle {
		t.Errorf("circle changed: %+v -> %+v", circle, after)
	}

	star, ok := findShape(p, puzzle.ShapeStar)
	if !ok {
		t.Fatal("expert puzzle should contain a star")
	}
	far := core.Pt(2000, 2000)
	c.MovePiece(star.ID, far)
	if !c.RotatePiece(star.ID) {
		t.Fatal("RotatePiece(star) was not applied")
	}
	after, _ = c.Puzzle().ArrangementPiece(star.ID)
	if expected := core.WrapDegrees(star.Rotation + 45); after.Rotation != expected {
		t.Errorf("Rotation = %v, expected %v", after.Rotation, expected)
	}
	if edge := puzzle.DefaultLayout().Board().Clamp(far); after.Position != edge {
		t.Errorf("Position = %v, expected the board edge %v", after.Position, edge)
	}
}

func TestMoveSnaps(t *testing.T) {
	c, _ := newManual(t, nil)
	c.StartNewGame(puzzle.DifficultyExpert)
	p := c.Puzzle()

	circle, _ := findShape(p, puzzle.ShapeCircle)
	target, _ := p.TargetPiece(circle.ID)

	c.MovePiece(circle.ID, target.Position.Add(20, -20))
	got, _ := c.Puzzle().ArrangementPiece(circle.ID)
	if got.Position != target.Position {
		t.Errorf("Position = %v, expected snap to %v", got.Position, target.Position)
	}
	if got.Rotation != circle.Rotation {
		t.Errorf("snap changed circle rotation from %v to %v", circle.Rotation, got.Rotation)
	}
	if c.Selected() != circle.ID {
		t.Error("moved piece should become selected")
	}
}

func TestPauseGatesTick(t *testing.T) {
	c, results := newManual(t, nil)
	c.StartNewGame(puzzle.DifficultyEasy)
	c.Tick()

	c.Pause()
	if st := c.Snapshot().State; st != StatePaused {
		t.Fatalf("State = %s, expected paused", st)
	}
	for i := 0; i < 100; i++ {
		c.Tick()
	}
	if tr := c.Snapshot().TimeRemaining; tr != 44 {
		t.Errorf("TimeRemaining while paused = %v, expected 44", tr)
	}

	// Commands are kept while paused but the session cannot be won yet.
	solve(c)
	if st := c.Snapshot().State; st != StatePaused {
		t.Fatalf("State = %s, expected paused after solving", st)
	}
	if len(results.all()) != 0 {
		t.Fatal("no result expected while paused")
	}

	c.Resume()
	if st := c.Snapshot().State; st != StateWon {
		t.Errorf("State = %s, expected won after resume", st)
	}
	if len(results.all()) != 1 {
		t.Errorf("got %d results, expected 1", len(results.all()))
	}
}

func TestIdleCommandsAreNoOps(t *testing.T) {
	c, results := newManual(t, nil)

	if c.MovePiece(uuid.New(), core.Pt(1, 1)) {
		t.Error("MovePiece should be ignored while idle")
	}
	if c.RotatePiece(uuid.New()) {
		t.Error("RotatePiece should be ignored while idle")
	}
	if _, ok := c.Hint(); ok {
		t.Error("Hint should be empty while idle")
	}
	c.Tick()
	c.Pause()
	c.Resume()
	c.Acknowledge()

	snap := c.Snapshot()
	if snap.State != StateIdle || snap.Puzzle != nil || snap.Score != 0 {
		t.Errorf("idle snapshot changed: %+v", snap)
	}
	if len(results.all()) != 0 {
		t.Error("idle controller produced a result")
	}

	c.StartNewGame(puzzle.DifficultyEasy)
	if c.MovePiece(uuid.New(), core.Pt(1, 1)) {
		t.Error("MovePiece with an unknown id should be ignored")
	}
}

func TestAcknowledgeAndReset(t *testing.T) {
	c, _ := newManual(t, nil)
	c.StartNewGame(puzzle.DifficultyEasy)
	solve(c)

	c.Acknowledge()
	snap := c.Snapshot()
	if snap.State != StateIdle || snap.Puzzle != nil {
		t.Fatalf("after Acknowledge: %+v", snap)
	}
	if snap.Score == 0 || snap.Level != 1 {
		t.Errorf("Acknowledge should keep score and level, got %d/%d", snap.Score, snap.Level)
	}

	c.StartNextLevel()
	c.ResetGame()
	c.ResetGame()

	snap = c.Snapshot()
	if snap.State != StateIdle || snap.Score != 0 || snap.Level != 0 || snap.Puzzle != nil {
		t.Errorf("after ResetGame: %+v", snap)
	}

	c.StartNewGame(puzzle.DifficultyEasy)
	if lvl := c.Snapshot().Level; lvl != 1 {
		t.Errorf("Level after reset = %d, expected 1", lvl)
	}
}

func TestHintAndSelection(t *testing.T) {
	c, _ := newManual(t, nil)
	c.StartNewGame(puzzle.DifficultyExpert)
	p := c.Puzzle()

	id, ok := c.Hint()
	if !ok {
		t.Fatal("expected a hint for a fresh expert puzzle")
	}
	if _, found := p.TargetPiece(id); !found {
		t.Errorf("hint %s is not a puzzle piece", id)
	}

	if c.Selected() != p.Arrangement[0].ID {
		t.Error("first arrangement piece should start selected")
	}
	if next := c.SelectNext(1); next != p.Arrangement[1].ID {
		t.Errorf("SelectNext(1) = %s, expected %s", next, p.Arrangement[1].ID)
	}
	c.SelectNext(-1)
	if prev := c.SelectNext(-1); prev != p.Arrangement[len(p.Arrangement)-1].ID {
		t.Errorf("SelectNext should wrap to the last piece, got %s", prev)
	}
	if c.SelectPiece(uuid.New()) {
		t.Error("selecting an unknown id should fail")
	}
}

func TestSubscription(t *testing.T) {
	c, _ := newManual(t, nil)
	sub := c.Subscribe(64)

	c.StartNewGame(puzzle.DifficultyEasy)
	solve(c)

	var sawActive, sawResult bool
	for {
		select {
		case evt := <-sub.Events():
			switch e := evt.(type) {
			case SnapshotEvent:
				if e.Snapshot.State == StateActive {
					sawActive = true
				}
			case ResultEvent:
				sawResult = e.Result.Success
			}
			continue
		default:
		}
		break
	}
	if !sawActive || !sawResult {
		t.Errorf("sawActive=%v sawResult=%v", sawActive, sawResult)
	}

	c.Unsubscribe(sub)
	c.StartNextLevel()
	select {
	case <-sub.Done():
	default:
		t.Error("Unsubscribe should close the subscription")
	}
	select {
	case evt := <-sub.Events():
		t.Errorf("unexpected event after Unsubscribe: %T", evt)
	default:
	}
}

func TestSubscriptionDropsOldest(t *testing.T) {
	sub := newSubscription(2)
	for i := 0; i < 5; i++ {
		sub.send(SnapshotEvent{Snapshot: Snapshot{Level: i}})
	}

	first := (<-sub.Events()).(SnapshotEvent)
	second := (<-sub.Events()).(SnapshotEvent)
	if first.Snapshot.Level != 3 || second.Snapshot.Level != 4 {
		t.Errorf("kept levels %d and %d, expected 3 and 4", first.Snapshot.Level, second.Snapshot.Level)
	}

	sub.Close()
	sub.Close()
	sub.send(SnapshotEvent{})
	select {
	case <-sub.Events():
		t.Error("closed subscription should not receive events")
	default:
	}
}

func TestCountdownTimer(t *testing.T) {
	c := New(nil, Options{TickInterval: 10 * time.Millisecond, Seed: 7})
	defer c.Close()

	c.StartNewGame(puzzle.DifficultyEasy)
	limit := c.Snapshot().TimeLimit

	deadline := time.Now().Add(5 * time.Second)
	for c.Snapshot().TimeRemaining == limit {
		if time.Now().After(deadline) {
			t.Fatal("countdown never ticked")
		}
		time.Sleep(time.Millisecond)
	}

	// A 10ms period takes 10ms off the clock, not a whole second.
	if spent := limit - c.Snapshot().TimeRemaining; spent <= 0 || spent >= 1 {
		t.Errorf("first ticks spent %vs, expected a fraction of a second", spent)
	}
}

func TestCloseWaitsForResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	c := New(nil, Options{
		Seed: 42,
		OnResult: func(Result) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				close(entered)
				<-release
			}
		},
	})

	c.StartNewGame(puzzle.DifficultyEasy)
	go solve(c)

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("level was never won")
	}

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while OnResult was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return after OnResult finished")
	}

	// Levels finished after Close report nothing.
	c.StartNewGame(puzzle.DifficultyEasy)
	solve(c)
	if st := c.Snapshot().State; st != StateWon {
		t.Fatalf("State = %s, expected won", st)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("OnResult called %d times, expected 1", calls)
	}
}

func TestPreferredDifficultyFallback(t *testing.T) {
	picked := profile.New("ada")
	picked.Settings.DifficultyPreference = puzzle.DifficultyMedium

	tests := []struct {
		name     string
		prof     *profile.Profile
		fallback puzzle.Difficulty
		expected puzzle.Difficulty
	}{
		{"unset uses default", profile.New("ada"), puzzle.DifficultyHard, puzzle.DifficultyHard},
		{"unset without default", profile.New("ada"), "", puzzle.DifficultyEasy},
		{"preference wins", picked, puzzle.DifficultyHard, puzzle.DifficultyMedium},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.prof, Options{Seed: 42, DefaultDifficulty: tc.fallback})
			defer c.Close()

			if got := c.PreferredDifficulty(); got != tc.expected {
				t.Errorf("PreferredDifficulty() = %s, expected %s", got, tc.expected)
			}
			c.StartNextLevel()
			if got := c.Snapshot().Difficulty; got != tc.expected {
				t.Errorf("StartNextLevel difficulty = %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestNudgeStopsAtBoardEdge(t *testing.T) {
	c, _ := newManual(t, nil)
	c.StartNewGame(puzzle.DifficultyMedium)
	id := c.Selected()
	board := puzzle.DefaultLayout().Board()

	for i := 0; i < 100; i++ {
		c.NudgePiece(id, 10, 10)
	}
	got, _ := c.Puzzle().ArrangementPiece(id)
	if got.Position != core.Pt(board.MaxX, board.MaxY) {
		t.Errorf("Position = %v, expected corner %v,%v", got.Position, board.MaxX, board.MaxY)
	}

	for i := 0; i < 100; i++ {
		c.NudgePiece(id, -10, -10)
	}
	got, _ = c.Puzzle().ArrangementPiece(id)
	if got.Position != core.Pt(board.MinX, board.MinY) {
		t.Errorf("Position = %v, expected corner %v,%v", got.Position, board.MinX, board.MinY)
	}
}

func TestPauseStopsCountdown(t *testing.T) {
	c := New(nil, Options{TickInterval: time.Millisecond, Seed: 7})
	defer c.Close()

	c.StartNewGame(puzzle.DifficultyExpert)
	time.Sleep(5 * time.Millisecond)
	c.Pause()

	before := c.Snapshot().TimeRemaining
	time.Sleep(20 * time.Millisecond)
	if after := c.Snapshot().TimeRemaining; after != before {
		t.Errorf("TimeRemaining moved while paused: %v -> %v", before, after)
	}
}
