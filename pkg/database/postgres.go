package database

import (
	"fmt"
	"time"

	"verifiedMarket/domain"
	"verifiedMarket/pkg/config"
	"verifiedMarket/pkg/logger"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dsn(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn(cfg.Database),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         NewGormLogger(logger.Get(), ParseLogLevel(cfg.Database.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}

	logger.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.Name)

	return db, nil
}

// Migrate creates or updates the marketplace tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.SellerProfile{},
		&domain.BuyerProfile{},
		&domain.AdminProfile{},
		&domain.Product{},
		&domain.Review{},
	); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return nil
}

func ParseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
