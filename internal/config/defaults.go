package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/cognify.yaml
var defaultYAML []byte

// DefaultConfig returns the hard-coded configuration. It matches the
// embedded defaults/cognify.yaml.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			OffsetX: 80,
			OffsetY: 120,
			Spacing: 90,
			Region: RegionConfig{
				MinX: 80,
				MinY: 120,
				MaxX: 280,
				MaxY: 350,
			},
		},
		Tolerances: ToleranceConfig{
			Position:     50,
			Rotation:     35,
			SnapDistance: 60,
			SnapRotation: 30,
			Hint:         30,
		},
		Scoring: ScoringConfig{
			PiecePoints:  100,
			SecondPoints: 10,
			StreakTiers: []StreakTierConfig{
				{MinStreak: 10, Points: 500},
				{MinStreak: 5, Points: 250},
				{MinStreak: 3, Points: 100},
			},
		},
		Session: SessionConfig{
			TickInterval:      time.Second,
			DefaultDifficulty: "easy",
			MoveStep:          10,
		},
	}
}
