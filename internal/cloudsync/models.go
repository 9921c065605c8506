package cloudsync

import (
	"time"

	"github.com/google/uuid"
)

// ProfileRecord is the remote row for one profile. Data holds the full
// serialized profile; the other columns are copies for querying.
type ProfileRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"index"`
	Data         string    `gorm:"type:jsonb"`
	TotalScore   int       `gorm:"index"`
	HighScore    int
	LastPlayedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName keeps the table name stable regardless of naming strategy.
func (ProfileRecord) TableName() string {
	return "cognify_profiles"
}
