package stores

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore persists conversations and files in a local SQLite
// database file.
type SQLiteStore struct {
	gormStore
	dbPath string
}

// NewSQLiteStore creates a new SQLite store from a StoreConfig.
func NewSQLiteStore(config StoreConfig) (*SQLiteStore, error) {
	store := &SQLiteStore{dbPath: config.Connection}
	if err := store.Connect(); err != nil {
		return nil, err
	}
	return store, nil
}

// NewSQLiteStoreSimple creates a new SQLite store from a file path.
func NewSQLiteStoreSimple(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStore(StoreConfig{Type: "sqlite", Connection: dbPath})
}

// Connect opens the database file and runs migrations.
func (s *SQLiteStore) Connect() error {
	db, err := gorm.Open(sqlite.Open(s.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open sqlite database at %s: %w", s.dbPath, err)
	}
	s.db = db

	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return nil
}
