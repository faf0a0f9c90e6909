package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/carson-networks/cashflow-gateway/internal/config"
	"github.com/carson-networks/cashflow-gateway/internal/storage/sqlconfig"
)

type Storage struct {
	DB       *sql.DB
	Sessions sqlconfig.ISessionTable
}

// NewStorage opens the session database named by the config, migrating it
// first.
func NewStorage(env *config.Config) (*Storage, error) {
	return Open(env.SessionDBPath)
}

// Open opens (creating if needed) the SQLite database at dbPath.
func Open(dbPath string) (*Storage, error) {
	if _, err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{
		DB:       db,
		Sessions: sqlconfig.NewSessionsTable(db),
	}, nil
}

func (s *Storage) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
