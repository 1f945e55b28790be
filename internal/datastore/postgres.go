package datastore

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openfra/fra-atlas/internal/model"
)

// PostgresStore implements Interface on PostgreSQL
type PostgresStore struct {
	DataStore
	Config model.PostgresConfig
}

func (s *PostgresStore) dsn() string {
	host := s.Config.Host
	if host == "" {
		host = "localhost"
	}
	port := s.Config.Port
	if port == 0 {
		port = 5432
	}
	sslMode := s.Config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		host, port, s.Config.User, s.Config.Database, sslMode)
	if s.Config.Password != "" {
		dsn += " password=" + s.Config.Password
	}
	return dsn
}

// Open connects and runs migrations
func (s *PostgresStore) Open() error {
	db, err := gorm.Open(postgres.Open(s.dsn()), gormConfig())
	if err != nil {
		return fmt.Errorf("open postgres database: %w", err)
	}
	s.DB = db
	return autoMigrate(db)
}

func (s *PostgresStore) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
