package database

import (
	"context"
	"fmt"

	"github.com/ferrigb/sistema-nota/internal/config"
	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/pkg/utils"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresDB(cfg, log)
	case "sqlite", "":
		return NewSQLiteDB(cfg, log)
	default:
		return nil, fmt.Errorf("unknown database driver %q (use sqlite or postgres)", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL database", zap.String("host", cfg.Host), zap.String("name", cfg.Name))
	return db, nil
}

// NewSQLiteDB opens an SQLite database file, or a private in-memory database
// when SQLitePath is ":memory:".
func NewSQLiteDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows a single writer, and every in-memory connection is its own database
	sqlDB.SetMaxOpenConns(1)

	log.Info("opened SQLite database", zap.String("path", path))
	return db, nil
}

func gormConfig(cfg *config.DatabaseConfig) *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Store{},
		&entity.Note{},
		&entity.Sale{},
		&entity.Item{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the operator account when it does not exist yet
func SeedDefaultData(ctx context.Context, db *gorm.DB, auth *config.AuthConfig, log *zap.Logger) error {
	if auth.AdminUsername == "" || auth.AdminPassword == "" {
		log.Warn("operator credentials not configured, skipping seed")
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).Where("username = ?", auth.AdminUsername).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up operator account: %w", err)
	}
	if count > 0 {
		log.Debug("operator account already exists", zap.String("username", auth.AdminUsername))
		return nil
	}

	hash, err := utils.HashPassword(auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}

	user := &entity.User{
		Username: auth.AdminUsername,
		Password: hash,
		Active:   true,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create operator account: %w", err)
	}

	log.Info("operator account created", zap.String("username", auth.AdminUsername))
	return nil
}
