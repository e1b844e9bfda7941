// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/logger"
)

// GormDB wraps the GORM database connection
type GormDB struct {
	db *gorm.DB
}

// NewGormDB creates a new GORM database connection
func NewGormDB(cfg *config.DatabaseConfig) (*GormDB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent), // the terminal belongs to the UI
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &GormDB{db: db}, nil
}

// AutoMigrate runs database migrations
func (db *GormDB) AutoMigrate() error {
	return db.db.AutoMigrate(&Recording{}, &AnnotationRow{})
}

// ValidateSchema checks that the tables and columns the store relies on exist
func (db *GormDB) ValidateSchema() error {
	m := db.db.Migrator()

	var missing []string
	for _, model := range []any{&Recording{}, &AnnotationRow{}} {
		if !m.HasTable(model) {
			missing = append(missing, fmt.Sprintf("%T", model))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables for %v; run 'toneswiper migrate'", missing)
	}

	for _, col := range []string{"recording_path", "time", "label", "position"} {
		if !m.HasColumn(&AnnotationRow{}, col) {
			missing = append(missing, "annotations."+col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %v", missing)
	}
	return nil
}

// Close closes the database connection
func (db *GormDB) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetAnnotations returns the rows of the given recordings, ordered by
// recording, time and insertion order.
func (db *GormDB) GetAnnotations(ctx context.Context, paths []string) ([]AnnotationRow, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	var rows []AnnotationRow
	err := db.db.WithContext(ctx).
		Where("recording_path IN ?", paths).
		Order("recording_path, time, position").
		Find(&rows).Error
	return rows, err
}

// GetRecording retrieves a recording by path, or nil if it was never saved
func (db *GormDB) GetRecording(ctx context.Context, path string) (*Recording, error) {
	var rec Recording
	err := db.db.WithContext(ctx).
		Preload("Annotations", func(tx *gorm.DB) *gorm.DB { return tx.Order("time, position") }).
		First(&rec, "path = ?", path).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// RecordingSummary is a saved recording with its annotation count.
type RecordingSummary struct {
	Path        string
	DurationMS  int64
	UpdatedAt   time.Time
	Annotations int
}

// ListRecordings returns every saved recording, most recently updated first.
func (db *GormDB) ListRecordings(ctx context.Context) ([]RecordingSummary, error) {
	var out []RecordingSummary
	err := db.db.WithContext(ctx).
		Model(&Recording{}).
		Select("recordings.path, recordings.duration_ms, recordings.updated_at, COUNT(annotations.id) AS annotations").
		Joins("LEFT JOIN annotations ON annotations.recording_path = recordings.path").
		Group("recordings.path, recordings.duration_ms, recordings.updated_at").
		Order("recordings.updated_at DESC, recordings.path").
		Scan(&out).Error
	return out, err
}

// ReplaceAnnotations upserts the recording and swaps its annotations for
// rows in a single transaction
func (db *GormDB) ReplaceAnnotations(ctx context.Context, rec Recording, rows []AnnotationRow) error {
	return db.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"duration_ms", "updated_at"}),
		}).Omit("Annotations").Create(&rec).Error
		if err != nil {
			return err
		}

		if err := tx.Where("recording_path = ?", rec.Path).Delete(&AnnotationRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// DBStore keeps annotations in the configured database.
type DBStore struct {
	db *GormDB
}

// NewDBStore wraps an open, migrated connection.
func NewDBStore(db *GormDB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Load(ctx context.Context, files []string) (map[string][]annotation.Point, error) {
	rows, err := s.db.GetAnnotations(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("load annotations: %w", err)
	}

	grouped := lo.GroupBy(rows, func(r AnnotationRow) string { return r.RecordingPath })
	out := lo.MapValues(grouped, func(rs []AnnotationRow, _ string) []annotation.Point {
		return lo.Map(rs, func(r AnnotationRow, _ int) annotation.Point {
			return annotation.Point{Time: r.Time, Label: r.Label}
		})
	})

	log := logger.GetStoreLogger()
	log.Debug().Int("rows", len(rows)).Int("recordings", len(out)).Msg("loaded database annotations")
	return out, nil
}

func (s *DBStore) Save(ctx context.Context, records []annotation.Record) error {
	log := logger.GetStoreLogger()

	for _, r := range records {
		rec := Recording{Path: r.File, DurationMS: r.Duration.Milliseconds()}
		rows := lo.Map(r.Points, func(p annotation.Point, i int) AnnotationRow {
			return AnnotationRow{RecordingPath: r.File, Time: p.Time, Label: p.Label, Position: i}
		})
		if err := s.db.ReplaceAnnotations(ctx, rec, rows); err != nil {
			return fmt.Errorf("save %s: %w", r.File, err)
		}
		log.Debug().Str("file", r.File).Int("points", len(rows)).Msg("saved annotations")
	}

	log.Info().Int("recordings", len(records)).Msg("wrote database annotations")
	return nil
}
