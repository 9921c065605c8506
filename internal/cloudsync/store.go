// Package cloudsync pushes and pulls player profiles to a remote Postgres
// store. Sync is best effort: failures are classified and reported but
// never touch in-memory game state.
package cloudsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/vovakirdan/cognify-quest/internal/profile"
)

// ErrNotFound is returned when the remote store has no such profile.
var ErrNotFound = errors.New("cloudsync: profile not found")

// Remote is a store that profiles can be synced with.
type Remote interface {
	SaveProfile(ctx context.Context, p *profile.Profile) error
	FetchProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	Ping(ctx context.Context) error
}

// Open initializes the database connection and performs migrations.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ProfileRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

// PostgresStore implements Remote on top of gorm.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a store helper from a gorm DB.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	if db == nil {
		return nil
	}
	return &PostgresStore{db: db}
}

// SaveProfile upserts the profile row.
func (s *PostgresStore) SaveProfile(ctx context.Context, p *profile.Profile) error {
	data, err := profile.Encode(p)
	if err != nil {
		return err
	}
	rec := ProfileRecord{
		ID:           p.ID,
		Username:     p.Username,
		Data:         string(data),
		TotalScore:   p.TotalScore,
		HighScore:    p.HighScore,
		LastPlayedAt: p.LastPlayedAt,
		CreatedAt:    p.CreatedAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "data", "total_score", "high_score", "last_played_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// FetchProfile loads a profile by id.
func (s *PostgresStore) FetchProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	var rec ProfileRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := profile.DecodeStrict([]byte(rec.Data))
	if err != nil {
		return nil, fmt.Errorf("cloudsync: stored profile %s: %w", id, err)
	}
	return p, nil
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Remote = (*PostgresStore)(nil)
