package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buysmart/comparison/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// slotRecord is one row of the slots table
type slotRecord struct {
	Key       string `gorm:"column:slot_key;primaryKey;size:191"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (slotRecord) TableName() string {
	return "slots"
}

// SQLiteStorage keeps slots in a single sqlite table
type SQLiteStorage struct {
	db *gorm.DB
}

// NewSQLiteStorage opens the database at dsn and migrates the slots table
func NewSQLiteStorage(dsn string) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLiteStorageFromDB(db)
}

// NewSQLiteStorageFromDB wraps an existing connection
func NewSQLiteStorageFromDB(db *gorm.DB) (*SQLiteStorage, error) {
	if err := db.AutoMigrate(&slotRecord{}); err != nil {
		return nil, fmt.Errorf("migrate slots: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Get returns the value stored at key
func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var record slotRecord
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot %s: %w", key, err)
	}
	return record.Value, nil
}

// Put upserts the value stored at key
func (s *SQLiteStorage) Put(ctx context.Context, key string, value []byte) error {
	record := slotRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

// Ping checks the database connection
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection
func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
