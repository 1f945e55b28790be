package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements Interface on a local SQLite file
type SQLiteStore struct {
	DataStore
	Path string
}

// Open creates the database file (and its directory) if needed and runs
// migrations.
func (s *SQLiteStore) Open() error {
	if s.Path == "" {
		s.Path = "fra-atlas.db"
	}
	if s.Path != ":memory:" {
		if dir := filepath.Dir(s.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(s.Path), gormConfig())
	if err != nil {
		return fmt.Errorf("open sqlite database %s: %w", s.Path, err)
	}
	s.DB = db
	return autoMigrate(db)
}

func (s *SQLiteStore) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
