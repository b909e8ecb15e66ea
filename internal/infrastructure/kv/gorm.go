package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbfc/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one persisted key
type Entry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "kv_entries"
}

// GormStore persists entries in a SQL table through GORM. With the sqlite
// driver it is the console's local storage file.
type GormStore struct {
	db    *gorm.DB
	owned bool
}

var _ Store = (*GormStore)(nil)

// NewGormStore uses an existing connection and migrates the entries table
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating kv_entries: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewSQLiteStore opens (or creates) a sqlite file at path. Use ":memory:"
// for a throwaway store.
func NewSQLiteStore(path string, zapLogger *zap.Logger) (*GormStore, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.NewGormLogger(zapLogger, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// a :memory: database exists per connection
	sqlDB.SetMaxOpenConns(1)

	s, err := NewGormStore(db)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("`key` = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("`key` IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

// Close closes the connection when the store opened it
func (s *GormStore) Close() error {
	if !s.owned {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
