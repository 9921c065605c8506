// Package config provides YAML-based configuration for the puzzle rules,
// scoring and session timing.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/session"
)

// Config is the full game configuration.
type Config struct {
	Layout     LayoutConfig    `yaml:"layout"`
	Tolerances ToleranceConfig `yaml:"tolerances"`
	Scoring    ScoringConfig   `yaml:"scoring"`
	Session    SessionConfig   `yaml:"session"`
}

// LayoutConfig defines where target pieces sit and where the arrangement
// is scattered, in board units.
type LayoutConfig struct {
	OffsetX float64      `yaml:"offset_x"`
	OffsetY float64      `yaml:"offset_y"`
	Spacing float64      `yaml:"spacing"`
	Region  RegionConfig `yaml:"region"`
}

// RegionConfig bounds the random starting positions.
type RegionConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// ToleranceConfig defines matching thresholds.
type ToleranceConfig struct {
	Position     float64 `yaml:"position"`
	Rotation     float64 `yaml:"rotation"`
	SnapDistance float64 `yaml:"snap_distance"`
	SnapRotation float64 `yaml:"snap_rotation"`
	Hint         float64 `yaml:"hint"`
}

// ScoringConfig defines the score formula.
type ScoringConfig struct {
	PiecePoints  int               `yaml:"piece_points"`
	SecondPoints int               `yaml:"second_points"`
	StreakTiers  []StreakTierConfig `yaml:"streak_tiers"`
}

// StreakTierConfig is one streak bonus threshold.
type StreakTierConfig struct {
	MinStreak int `yaml:"min_streak"`
	Points    int `yaml:"points"`
}

// SessionConfig defines session timing and input parameters.
type SessionConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`
	DefaultDifficulty string        `yaml:"default_difficulty"`
	MoveStep          float64       `yaml:"move_step"` // board units per key press
}

// Validate checks the configuration for values the engine cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Layout.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("layout.spacing must be positive, got %v", c.Layout.Spacing))
	}
	r := c.Layout.Region
	if r.MaxX < r.MinX || r.MaxY < r.MinY {
		errs = append(errs, fmt.Errorf("layout.region is empty: %+v", r))
	}
	if c.Tolerances.Position < 0 || c.Tolerances.Rotation < 0 || c.Tolerances.SnapDistance < 0 ||
		c.Tolerances.SnapRotation < 0 || c.Tolerances.Hint < 0 {
		errs = append(errs, errors.New("tolerances must not be negative"))
	}
	if c.Tolerances.Rotation > 180 {
		errs = append(errs, fmt.Errorf("tolerances.rotation must be at most 180, got %v", c.Tolerances.Rotation))
	}
	if c.Session.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("session.tick_interval must be positive, got %v", c.Session.TickInterval))
	}
	if c.Session.MoveStep <= 0 {
		errs = append(errs, fmt.Errorf("session.move_step must be positive, got %v", c.Session.MoveStep))
	}
	if c.Session.DefaultDifficulty != "" {
		if _, err := puzzle.ParseDifficulty(c.Session.DefaultDifficulty); err != nil {
			errs = append(errs, fmt.Errorf("session.default_difficulty: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Rules converts the layout and tolerances into engine rules.
func (c Config) Rules() puzzle.Rules {
	return puzzle.Rules{
		Layout: puzzle.Layout{
			OffsetX: c.Layout.OffsetX,
			OffsetY: c.Layout.OffsetY,
			Spacing: c.Layout.Spacing,
			Region: core.Bounds{
				MinX: c.Layout.Region.MinX,
				MinY: c.Layout.Region.MinY,
				MaxX: c.Layout.Region.MaxX,
				MaxY: c.Layout.Region.MaxY,
			},
		},
		Tolerances: puzzle.Tolerances{
			Position:     c.Tolerances.Position,
			Rotation:     c.Tolerances.Rotation,
			SnapDistance: c.Tolerances.SnapDistance,
			SnapRotation: c.Tolerances.SnapRotation,
			Hint:         c.Tolerances.Hint,
		},
	}
}

// ScoringRules converts the scoring section.
func (c Config) ScoringRules() session.Scoring {
	s := session.Scoring{
		PiecePoints:  c.Scoring.PiecePoints,
		SecondPoints: c.Scoring.SecondPoints,
	}
	for _, t := range c.Scoring.StreakTiers {
		s.StreakTiers = append(s.StreakTiers, session.StreakTier{MinStreak: t.MinStreak, Points: t.Points})
	}
	return s
}

// SessionOptions builds controller options from the configuration.
// Seed, logger and callbacks are left for the caller.
func (c Config) SessionOptions() session.Options {
	d, _ := c.ResolveDifficulty("", "")
	return session.Options{
		TickInterval:      c.Session.TickInterval,
		Rules:             c.Rules(),
		Scoring:           c.ScoringRules(),
		DefaultDifficulty: d,
	}
}
