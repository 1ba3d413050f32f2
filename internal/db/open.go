// Package db opens the SQL database behind the gorm store and migrates its schema.
package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

var sleep = time.Sleep

// Open connects to the database selected by cfg.Driver (postgres or sqlite).
// Postgres connections are retried to give the server time to start.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Debug {
		logLevel = gormlogger.Info
	}
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}
	log := logger.WithComponent("db")

	switch cfg.Driver {
	case config.DriverSQLite:
		log.Info().Str("path", cfg.SQLitePath).Msg("opening sqlite database")
		return gorm.Open(sqlite.Open(sqliteDSN(cfg.SQLitePath)), gcfg)
	case config.DriverPostgres:
		dsn := NormalizeDSN(cfg.DSN())
		log.Info().Str("dsn", MaskDSN(dsn)).Msg("connecting to postgres")
		var db *gorm.DB
		var err error
		for i := 1; i <= connectAttempts; i++ {
			db, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				break
			}
			if i == connectAttempts {
				break
			}
			log.Warn().Err(err).Int("attempt", i).Int("of", connectAttempts).Msg("database connection failed, retrying")
			sleep(connectBackoff)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
		if err := db.Exec("SELECT 1").Error; err != nil {
			return nil, fmt.Errorf("db ping failed: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Driver)
	}
}

// sqliteDSN turns on foreign key enforcement so ON DELETE CASCADE applies.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
