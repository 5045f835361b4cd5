package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// Service owns the database handle. The driver is chosen from the URI scheme:
// postgres:// for deployments, sqlite://<file> (the default) for local runs.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(databaseURI string, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	dialector, err := dialectorFor(databaseURI)
	if err != nil {
		return nil, err
	}

	serviceLog.Info("Connecting to database...", "uri_scheme", schemeOf(databaseURI))
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll migrates parents before children so the cascade constraints
// declared on the models can be created. The uniqueness constraints here are
// part of the compatibility surface: changing them changes ingestion
// idempotence semantics.
func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.QueryHistory{},
		&types.SourceUser{},
		&types.Book{},
		&types.Recommendation{},
		&types.Tag{},
		&types.Classification{},
		&types.JobRun{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(uri string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return postgres.Open(uri), nil
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = "default.db"
		}
		// The pragma rides in the DSN so every pooled connection
		// enforces foreign keys, not just the one a one-off Exec
		// happens to hit.
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return sqlite.Open(path + sep + "_foreign_keys=on"), nil
	case uri == "":
		return nil, fmt.Errorf("empty DATABASE_URI")
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URI scheme: %s", schemeOf(uri))
	}
}

func schemeOf(uri string) string {
	if i := strings.Index(uri, "://"); i > 0 {
		return uri[:i]
	}
	return uri
}
