package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func winResult(p *profile.Profile, d puzzle.Difficulty, points, bonus int, at time.Time) session.Result {
	return session.Result{
		Success:       true,
		Level:         1,
		Difficulty:    d,
		Points:        points,
		StreakBonus:   bonus,
		TimeRemaining: 12,
		Elapsed:       33 * time.Second,
		FinishedAt:    at,
		Profile:       p,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreProfileRoundTrip(t *testing.T) {
	store := openTestStore(t)

	p := profile.New("ada")
	p.UpdateScore(800)
	p.CompleteLevel(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	p.Settings.DifficultyPreference = puzzle.DifficultyHard

	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}

	got, err := store.LoadProfile(p.ID)
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	if got.ID != p.ID || got.Username != "ada" || got.TotalScore != 800 || got.CurrentStreak != 1 {
		t.Errorf("LoadProfile() = %+v", got)
	}
	if got.Settings.DifficultyPreference != puzzle.DifficultyHard {
		t.Errorf("difficulty preference = %s, expected hard", got.Settings.DifficultyPreference)
	}

	// Saving again updates in place.
	p.Username = "ada2"
	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile() update failed: %v", err)
	}
	byName, err := store.ProfileByUsername("ada2")
	if err != nil || byName.ID != p.ID {
		t.Errorf("ProfileByUsername() = %v, %v", byName, err)
	}
	if _, err := store.ProfileByUsername("ada"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old username should be gone, got %v", err)
	}
}

func TestStoreLoadProfileNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadProfile(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreMalformedProfileFallsBack(t *testing.T) {
	store := openTestStore(t)

	p := profile.New("ada")
	p.UpdateScore(500)
	if err := store.SaveProfile(p); err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("UPDATE profiles SET data = 'garbage' WHERE id = ?", p.ID.String()); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadProfile(p.ID)
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	if got.ID != p.ID || got.Username != "ada" {
		t.Errorf("fallback should keep identity, got %s/%s", got.ID, got.Username)
	}
	if got.TotalScore != 0 {
		t.Errorf("fallback should be a fresh profile, TotalScore = %d", got.TotalScore)
	}
}

func TestStoreLoadOrCreateProfile(t *testing.T) {
	store := openTestStore(t)

	first, err := store.LoadOrCreateProfile("")
	if err != nil {
		t.Fatalf("LoadOrCreateProfile() failed: %v", err)
	}
	second, err := store.LoadOrCreateProfile(profile.DefaultUsername)
	if err != nil {
		t.Fatalf("LoadOrCreateProfile() failed: %v", err)
	}
	if first.ID != second.ID {
		t.Error("LoadOrCreateProfile should return the stored profile")
	}
}

func TestStoreLoadOrCreateProfileConcurrent(t *testing.T) {
	store := openTestStore(t)

	const callers = 8
	ids := make(chan uuid.UUID, callers)
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := store.LoadOrCreateProfile("ada")
			if err != nil {
				errs <- err
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("LoadOrCreateProfile() failed: %v", err)
	}
	var first uuid.UUID
	for id := range ids {
		if first == uuid.Nil {
			first = id
		} else if id != first {
			t.Errorf("callers got different profiles: %s and %s", first, id)
		}
	}

	stored, err := store.ProfileByUsername("ada")
	if err != nil {
		t.Fatalf("ProfileByUsername() failed: %v", err)
	}
	if stored.ID != first {
		t.Errorf("stored ID = %s, expected %s", stored.ID, first)
	}
}

func TestStoreRecordResult(t *testing.T) {
	store := openTestStore(t)
	at := time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

	p := profile.New("ada")
	p.UpdateScore(800)
	p.CompleteLevel(at)
	if err := store.RecordResult(winResult(p, puzzle.DifficultyEasy, 800, 0, at)); err != nil {
		t.Fatalf("RecordResult() failed: %v", err)
	}

	loaded, err := store.LoadProfile(p.ID)
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	if loaded.TotalScore != 800 || loaded.LevelsCompleted != 1 {
		t.Errorf("profile not saved with result: %+v", loaded)
	}

	p.FailLevel(at.Add(time.Minute))
	loss := session.Result{Level: 2, Difficulty: puzzle.DifficultyEasy, FinishedAt: at.Add(time.Minute), Profile: p}
	if err := store.RecordResult(loss); err != nil {
		t.Fatalf("RecordResult() failed: %v", err)
	}

	stats, err := store.ProfileStats(p.ID)
	if err != nil {
		t.Fatalf("ProfileStats() failed: %v", err)
	}
	if stats.Games != 2 || stats.Wins != 1 || stats.HighScore != 800 || stats.TotalScore != 800 {
		t.Errorf("ProfileStats() = %+v", stats)
	}
	if !stats.LastPlayed.Equal(at.Add(time.Minute)) {
		t.Errorf("LastPlayed = %v, expected %v", stats.LastPlayed, at.Add(time.Minute))
	}

	history, err := store.History(p.ID, 10)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 2 || history[0].Success || !history[1].Success {
		t.Fatalf("History() = %+v", history)
	}
	if history[1].Elapsed != 33*time.Second || history[1].Username != "ada" {
		t.Errorf("history entry = %+v", history[1])
	}

	if err := store.RecordResult(session.Result{}); err == nil {
		t.Error("RecordResult without a profile should fail")
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)
	at := time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

	p := profile.New("ada")
	if err := store.SaveProfile(p); err != nil {
		t.Fatal(err)
	}

	scores := []struct {
		d      puzzle.Difficulty
		points int
		bonus  int
	}{
		{puzzle.DifficultyEasy, 100, 0},
		{puzzle.DifficultyEasy, 300, 100},
		{puzzle.DifficultyEasy, 200, 0},
		{puzzle.DifficultyHard, 500, 0},
		{puzzle.DifficultyEasy, 50, 0},
	}
	for i, s := range scores {
		if _, err := store.SaveResult(p.ID, winResult(p, s.d, s.points, s.bonus, at.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	// Losses never appear on the board.
	if _, err := store.SaveResult(p.ID, session.Result{Difficulty: puzzle.DifficultyEasy, Points: 9999}); err != nil {
		t.Fatal(err)
	}

	top, err := store.TopScores(puzzle.DifficultyEasy, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(top))
	}
	if top[0].Score() != 400 || top[1].Score() != 200 || top[2].Score() != 100 {
		t.Errorf("Scores not in expected order: %v", top)
	}

	all, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 5 || all[0].Difficulty != puzzle.DifficultyHard {
		t.Errorf("TopScores(all) = %v", all)
	}

	high, err := store.HighScore(puzzle.DifficultyEasy)
	if err != nil || high != 400 {
		t.Errorf("HighScore(easy) = %d, %v, expected 400", high, err)
	}
	high, err = store.HighScore(puzzle.DifficultyExpert)
	if err != nil || high != 0 {
		t.Errorf("HighScore(expert) = %d, %v, expected 0", high, err)
	}
}

func TestStoreClearAndDelete(t *testing.T) {
	store := openTestStore(t)
	at := time.Now()

	a := profile.New("ada")
	b := profile.New("bob")
	for _, p := range []*profile.Profile{a, b} {
		if err := store.RecordResult(winResult(p, puzzle.DifficultyEasy, 100, 0, at)); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.ClearResults(a.ID); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	if stats, _ := store.ProfileStats(a.ID); stats.Games != 0 {
		t.Errorf("ada still has %d results", stats.Games)
	}
	if stats, _ := store.ProfileStats(b.ID); stats.Games != 1 {
		t.Errorf("bob results should not be affected by clearing ada")
	}

	if err := store.DeleteProfile(b.ID); err != nil {
		t.Fatalf("DeleteProfile() failed: %v", err)
	}
	if _, err := store.LoadProfile(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted profile still loads: %v", err)
	}
	if err := store.DeleteProfile(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, expected ErrNotFound", err)
	}
}
