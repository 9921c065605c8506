package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/session"
)

// ResultEntry is a stored level result.
type ResultEntry struct {
	ID            int64
	ProfileID     uuid.UUID
	Username      string
	Level         int
	Difficulty    puzzle.Difficulty
	Success       bool
	Points        int
	StreakBonus   int
	TimeRemaining float64
	Elapsed       time.Duration
	CreatedAt     time.Time
}

// Score returns points plus streak bonus.
func (e ResultEntry) Score() int {
	return e.Points + e.StreakBonus
}

// ResultStats contains aggregated statistics for one profile.
type ResultStats struct {
	Games      int
	Wins       int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// SaveResult records a level result for profileID.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(profileID uuid.UUID, r session.Result) (int64, error) {
	return saveResult(s.db, profileID, r)
}

// RecordResult stores the result and the updated profile it carries in
// one transaction.
func (s *Store) RecordResult(r session.Result) error {
	if r.Profile == nil {
		return fmt.Errorf("storage: result has no profile")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot record result: %w", err)
	}
	defer tx.Rollback()

	if err := upsertProfile(tx, r.Profile, resultTime(r)); err != nil {
		return err
	}
	if _, err := saveResult(tx, r.Profile.ID, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot record result: %w", err)
	}
	return nil
}

// TopScores retrieves the best winning results, optionally limited to one
// difficulty (empty means all). Results are ordered by score descending.
func (s *Store) TopScores(difficulty puzzle.Difficulty, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.profile_id, COALESCE(p.username, ''), r.level, r.difficulty, r.success,
		        r.points, r.streak_bonus, r.time_remaining, r.elapsed_secs, r.created_at
		 FROM results r
		 LEFT JOIN profiles p ON p.id = r.profile_id
		 WHERE r.success = 1 AND (? = '' OR r.difficulty = ?)
		 ORDER BY r.points + r.streak_bonus DESC, r.created_at ASC
		 LIMIT ?`,
		string(difficulty), string(difficulty), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// History retrieves the most recent results of a profile.
func (s *Store) History(profileID uuid.UUID, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.profile_id, COALESCE(p.username, ''), r.level, r.difficulty, r.success,
		        r.points, r.streak_bonus, r.time_remaining, r.elapsed_secs, r.created_at
		 FROM results r
		 LEFT JOIN profiles p ON p.id = r.profile_id
		 WHERE r.profile_id = ?
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`,
		profileID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query history: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// HighScore returns the best single result score for the difficulty
// (empty means all). Returns 0 if no wins exist.
func (s *Store) HighScore(difficulty puzzle.Difficulty) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(points + streak_bonus) FROM results
		 WHERE success = 1 AND (? = '' OR difficulty = ?)`,
		string(difficulty), string(difficulty),
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ProfileStats retrieves aggregated result statistics for a profile.
func (s *Store) ProfileStats(profileID uuid.UUID) (*ResultStats, error) {
	stats := &ResultStats{}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0),
		        COALESCE(MAX(points + streak_bonus), 0),
		        COALESCE(AVG(points + streak_bonus), 0),
		        COALESCE(SUM(points + streak_bonus), 0),
		        MAX(created_at)
		 FROM results WHERE profile_id = ?`,
		profileID.String(),
	).Scan(&stats.Games, &stats.Wins, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get profile stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// ClearResults deletes all results of a profile.
func (s *Store) ClearResults(profileID uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM results WHERE profile_id = ?", profileID.String())
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func saveResult(db execer, profileID uuid.UUID, r session.Result) (int64, error) {
	success := 0
	if r.Success {
		success = 1
	}
	res, err := db.Exec(
		`INSERT INTO results
		 (profile_id, level, difficulty, success, points, streak_bonus, time_remaining, elapsed_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profileID.String(),
		r.Level,
		string(r.Difficulty),
		success,
		r.Points,
		r.StreakBonus,
		r.TimeRemaining,
		r.Elapsed.Seconds(),
		formatTime(resultTime(r)),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

func scanResults(rows *sql.Rows) ([]ResultEntry, error) {
	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var idText, difficulty string
		var success int
		var elapsed float64
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&idText,
			&e.Username,
			&e.Level,
			&difficulty,
			&success,
			&e.Points,
			&e.StreakBonus,
			&e.TimeRemaining,
			&elapsed,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.ProfileID, _ = uuid.Parse(idText)
		e.Difficulty = puzzle.Difficulty(difficulty)
		e.Success = success != 0
		e.Elapsed = time.Duration(elapsed * float64(time.Second))
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

func resultTime(r session.Result) time.Time {
	if r.FinishedAt.IsZero() {
		return time.Now()
	}
	return r.FinishedAt
}
