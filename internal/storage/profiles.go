package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/profile"
)

// SaveProfile inserts or replaces a profile.
func (s *Store) SaveProfile(p *profile.Profile) error {
	return upsertProfile(s.db, p, time.Now())
}

// LoadProfile returns the profile with id, or ErrNotFound.
// A row whose data cannot be decoded yields a default profile that keeps
// the stored id and username.
func (s *Store) LoadProfile(id uuid.UUID) (*profile.Profile, error) {
	return s.loadProfile("SELECT id, username, data FROM profiles WHERE id = ?", id.String())
}

// ProfileByUsername returns the profile with the given username, or ErrNotFound.
func (s *Store) ProfileByUsername(username string) (*profile.Profile, error) {
	return s.loadProfile("SELECT id, username, data FROM profiles WHERE username = ?", username)
}

// LoadOrCreateProfile returns the profile for username, creating and
// saving a new one when none exists.
func (s *Store) LoadOrCreateProfile(username string) (*profile.Profile, error) {
	if username == "" {
		username = profile.DefaultUsername
	}
	p, err := s.ProfileByUsername(username)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := insertProfileIfAbsent(s.db, profile.New(username), time.Now()); err != nil {
		return nil, err
	}
	// Another caller may have created the row first; its profile wins.
	return s.ProfileByUsername(username)
}

// DeleteProfile removes a profile and its results.
func (s *Store) DeleteProfile(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot delete profile: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM results WHERE profile_id = ?", id.String()); err != nil {
		return fmt.Errorf("storage: cannot delete results: %w", err)
	}
	res, err := tx.Exec("DELETE FROM profiles WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("storage: cannot delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot delete profile: %w", err)
	}
	return nil
}

func (s *Store) loadProfile(query string, arg any) (*profile.Profile, error) {
	var idText, username, data string
	err := s.db.QueryRow(query, arg).Scan(&idText, &username, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profile: %w", err)
	}

	p, err := profile.DecodeStrict([]byte(data))
	if err != nil {
		p = profile.New(username)
		if id, perr := uuid.Parse(idText); perr == nil {
			p.ID = id
		}
	}
	return p, nil
}

func upsertProfile(db execer, p *profile.Profile, updatedAt time.Time) error {
	data, err := profile.Encode(p)
	if err != nil {
		return fmt.Errorf("storage: cannot save profile: %w", err)
	}
	_, err = db.Exec(
		`INSERT INTO profiles (id, username, data, total_score, high_score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username = excluded.username,
		   data = excluded.data,
		   total_score = excluded.total_score,
		   high_score = excluded.high_score,
		   updated_at = excluded.updated_at`,
		p.ID.String(), p.Username, string(data), p.TotalScore, p.HighScore, formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save profile: %w", err)
	}
	return nil
}

// insertProfileIfAbsent creates p unless its username is already taken.
func insertProfileIfAbsent(db execer, p *profile.Profile, updatedAt time.Time) error {
	data, err := profile.Encode(p)
	if err != nil {
		return fmt.Errorf("storage: cannot create profile: %w", err)
	}
	_, err = db.Exec(
		`INSERT INTO profiles (id, username, data, total_score, high_score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(username) DO NOTHING`,
		p.ID.String(), p.Username, string(data), p.TotalScore, p.HighScore, formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create profile: %w", err)
	}
	return nil
}
