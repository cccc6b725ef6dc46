package stores

import (
	"fmt"
	"os"
)

// Environment variables consulted by NewStoreFromEnv.
const (
	DBTypeEnvVar       = "TOOLKIT_DB_TYPE"
	DBConnectionEnvVar = "TOOLKIT_DB_CONNECTION"
)

// NewStore creates a store based on the configuration type.
func NewStore(config StoreConfig) (Store, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteStore(config)
	case "postgres":
		return NewPostgresStore(config)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// NewStoreFromEnv creates a store from TOOLKIT_DB_TYPE and
// TOOLKIT_DB_CONNECTION. With nothing set it falls back to the default
// SQLite file; TOOLKIT_DB_CONNECTION is a file path for sqlite and a
// DSN for postgres.
func NewStoreFromEnv() (Store, error) {
	storeType := os.Getenv(DBTypeEnvVar)
	connection := os.Getenv(DBConnectionEnvVar)
	switch storeType {
	case "", "sqlite":
		if connection == "" {
			return NewSQLiteStoreDefault()
		}
		return NewSQLiteStoreSimple(connection)
	case "postgres":
		if connection == "" {
			return nil, fmt.Errorf("%s is required for postgres stores", DBConnectionEnvVar)
		}
		return NewPostgresStoreSimple(connection)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}

// NewSQLiteStoreDefault creates a SQLite store with the default
// database file in the working directory.
func NewSQLiteStoreDefault() (*SQLiteStore, error) {
	return NewSQLiteStoreSimple("chat_history.sqlite")
}

// NewPostgresStoreDefault creates a Postgres store from the
// individual connection parameters.
func NewPostgresStoreDefault(host, user, password, dbname string, port int) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)
	return NewPostgresStoreSimple(dsn)
}
