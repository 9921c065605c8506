// Package profile holds the player aggregate the session engine reads at
// the start of a level and hands back, updated, after every result.
// Persistence lives elsewhere (see internal/storage and internal/cloudsync).
package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

// DefaultAvatar is used for new profiles.
const DefaultAvatar = "🧠"

// DefaultUsername is used when no name is given.
const DefaultUsername = "player"

// Statistics are per-game counters. Durations are stored in seconds.
type Statistics struct {
	GamesPlayed           int     `json:"games_played"`
	GamesWon              int     `json:"games_won"`
	TotalTimePlayed       float64 `json:"total_time_played"`
	AverageCompletionTime float64 `json:"average_completion_time"`
	PerfectGames          int     `json:"perfect_games"`
}

// Settings are player preferences. Only DifficultyPreference and
// ShowHints affect the engine; the rest are carried for front ends.
type Settings struct {
	SoundEnabled         bool              `json:"sound_enabled"`
	MusicEnabled         bool              `json:"music_enabled"`
	HapticEnabled        bool              `json:"haptic_enabled"`
	DifficultyPreference puzzle.Difficulty `json:"difficulty_preference"`
	ShowHints            bool              `json:"show_hints"`
	ColorBlindMode       bool              `json:"color_blind_mode"`
}

// DefaultSettings returns the settings of a new profile. The difficulty
// preference is left unset so the configured default applies.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:         true,
		MusicEnabled:         true,
		HapticEnabled:        true,
		ShowHints:            true,
	}
}

// Profile is the player aggregate.
type Profile struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	AvatarEmoji     string     `json:"avatar_emoji"`
	TotalScore      int        `json:"total_score"`
	HighScore       int        `json:"high_score"`
	LevelsCompleted int        `json:"levels_completed"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	Statistics      Statistics `json:"statistics"`
	Settings        Settings   `json:"settings"`
	CreatedAt       time.Time  `json:"created_at"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
}

// New creates a profile with a fresh ID.
func New(username string) *Profile {
	if username == "" {
		username = DefaultUsername
	}
	return &Profile{
		ID:          uuid.New(),
		Username:    username,
		AvatarEmoji: DefaultAvatar,
		Settings:    DefaultSettings(),
		CreatedAt:   time.Now().UTC(),
	}
}

// Default returns a fresh profile with the default username.
func Default() *Profile {
	return New(DefaultUsername)
}

// UpdateScore adds a single game's score to the running total and raises
// the high score if the game beat it.
func (p *Profile) UpdateScore(points int) {
	p.TotalScore += points
	if points > p.HighScore {
		p.HighScore = points
	}
}

// AddBonus adds points to the running total only.
func (p *Profile) AddBonus(points int) {
	p.TotalScore += points
}

// CompleteLevel records a won level.
func (p *Profile) CompleteLevel(now time.Time) {
	p.LevelsCompleted++
	p.CurrentStreak++
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.Statistics.GamesPlayed++
	p.Statistics.GamesWon++
	p.touch(now)
}

// FailLevel records a lost level. LongestStreak is untouched.
func (p *Profile) FailLevel(now time.Time) {
	p.CurrentStreak = 0
	p.Statistics.GamesPlayed++
	p.touch(now)
}

// RecordPlayTime adds the time spent on one level. Won levels also feed
// the average completion time; perfect marks a win with time to spare.
// Call it after CompleteLevel so GamesWon already counts the level.
func (p *Profile) RecordPlayTime(d time.Duration, won, perfect bool) {
	secs := d.Seconds()
	if secs < 0 {
		secs = 0
	}
	p.Statistics.TotalTimePlayed += secs
	if !won {
		return
	}
	if n := p.Statistics.GamesWon; n > 0 {
		prev := p.Statistics.AverageCompletionTime * float64(n-1)
		p.Statistics.AverageCompletionTime = (prev + secs) / float64(n)
	}
	if perfect {
		p.Statistics.PerfectGames++
	}
}

// Reset clears progress while keeping identity and settings.
func (p *Profile) Reset() {
	p.TotalScore = 0
	p.HighScore = 0
	p.LevelsCompleted = 0
	p.CurrentStreak = 0
	p.LongestStreak = 0
	p.Statistics = Statistics{}
	p.LastPlayedAt = nil
}

// WinRate returns won/played in [0, 1].
func (p *Profile) WinRate() float64 {
	if p.Statistics.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Statistics.GamesWon) / float64(p.Statistics.GamesPlayed)
}

// PreferredDifficulty returns the settings preference, or easy when unset.
func (p *Profile) PreferredDifficulty() puzzle.Difficulty {
	if p.Settings.DifficultyPreference.Valid() {
		return p.Settings.DifficultyPreference
	}
	return puzzle.DifficultyEasy
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.LastPlayedAt != nil {
		t := *p.LastPlayedAt
		c.LastPlayedAt = &t
	}
	return &c
}

func (p *Profile) touch(now time.Time) {
	t := now.UTC()
	p.LastPlayedAt = &t
}
