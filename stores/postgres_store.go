package stores

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresStore persists conversations and files in a PostgreSQL
// database.
type PostgresStore struct {
	gormStore
	dsn string
}

// NewPostgresStore creates a new Postgres store from a StoreConfig.
// The Connection field holds the full DSN.
func NewPostgresStore(config StoreConfig) (*PostgresStore, error) {
	store := &PostgresStore{dsn: config.Connection}
	if err := store.Connect(); err != nil {
		return nil, err
	}
	return store, nil
}

// NewPostgresStoreSimple creates a new Postgres store from a DSN.
func NewPostgresStoreSimple(dsn string) (*PostgresStore, error) {
	return NewPostgresStore(StoreConfig{Type: "postgres", Connection: dsn})
}

// Connect opens the database connection and runs migrations.
func (s *PostgresStore) Connect() error {
	db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s.db = db

	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to migrate postgres database: %w", err)
	}
	return nil
}
