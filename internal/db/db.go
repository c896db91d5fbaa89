package db

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/service-cart/internal/config"
)

const connectTimeout = 2 * time.Minute

// New opens the PostgreSQL connection, retrying while the database comes up,
// applies the pool settings and runs the migrations.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var database *gorm.DB

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = connectTimeout

	operation := func() error {
		conn, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.Environment)),
		})
		if err != nil {
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		database = conn
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("database not ready")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.DB.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if err := runMigrations(database); err != nil {
		return nil, err
	}

	log.Info().Msg("database ready")
	return database, nil
}

func gormLogLevel(environment string) gormlogger.LogLevel {
	if environment == "development" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
