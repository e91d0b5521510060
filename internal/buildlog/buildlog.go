// Package buildlog keeps one MySQL row per graph build.
package buildlog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/logging"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	// DefaultListLimit applies when ListBuilds is given a non-positive limit.
	DefaultListLimit = 50
)

/*
BuildRecord is one build of a session.

	Status is StatusSucceeded or StatusFailed; ErrorMessage is set on failure.
	Rejected counts come from the validation report.
*/
type BuildRecord struct {
	gorm.Model

	BuildID    string `gorm:"type:varchar(36);uniqueIndex"`
	SessionID  string `gorm:"type:varchar(64);index"`
	DocumentID string `gorm:"type:varchar(128)"`
	TextLength int

	Entities              int
	Relationships         int
	Events                int
	RejectedEntities      int
	RejectedRelationships int

	DurationMillis int64
	Status         string `gorm:"type:varchar(16)"`
	ErrorMessage   string `gorm:"type:text"`
}

type Store struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

// Open connects to MySQL and migrates the build table.
func Open(cfg config.MySQLConfig, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.New(logging.Printf{Logger: logger}, gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	err = db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4").AutoMigrate(&BuildRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate build log: %w", err)
	}
	return New(db, logger), nil
}

func New(db *gorm.DB, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{DB: db, Logger: logger}
}

func (s *Store) RecordBuild(ctx context.Context, summary model.BuildSummary) error {
	rec := toRecord(summary)
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record build %s: %w", summary.BuildID, err)
	}
	return nil
}

// ListBuilds returns the newest builds of a session first.
func (s *Store) ListBuilds(ctx context.Context, sessionID string, limit int) ([]BuildRecord, error) {
	var out []BuildRecord
	if err := listQuery(s.DB.WithContext(ctx), sessionID, limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list builds of %s: %w", sessionID, err)
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func listQuery(db *gorm.DB, sessionID string, limit int) *gorm.DB {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return db.Where("session_id = ?", sessionID).Order("created_at desc").Limit(limit)
}

func toRecord(s model.BuildSummary) BuildRecord {
	rec := BuildRecord{
		BuildID:               s.BuildID,
		SessionID:             s.SessionID,
		DocumentID:            s.DocumentID,
		TextLength:            s.TextLength,
		Entities:              s.Entities,
		Relationships:         s.Relationships,
		Events:                s.Events,
		RejectedEntities:      s.RejectedEntities,
		RejectedRelationships: s.RejectedRelationships,
		DurationMillis:        s.DurationMillis,
		Status:                StatusSucceeded,
	}
	if s.Err != nil {
		rec.Status = StatusFailed
		rec.ErrorMessage = s.Err.Error()
	}
	return rec
}
