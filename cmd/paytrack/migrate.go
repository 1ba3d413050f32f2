package main

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/db"
	"github.com/diewo77/paytrack/internal/logger"
)

// migrate runs the embedded SQL migrations when MIGRATIONS is set, gorm
// AutoMigrate otherwise.
func migrate(cfg *config.Config, gdb *gorm.DB) error {
	log := logger.WithComponent("migrate")
	if cfg.App.Migrations {
		log.Info().Msg("running sql migrations")
		return db.RunSQLMigrations(db.MigrationURL(cfg.Database))
	}
	log.Debug().Msg("running automigrate")
	return db.AutoMigrate(gdb)
}

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			// openStore migrates SQL stores; bolt creates its buckets
			_, closeFn, err := openStore(cfg())
			if err != nil {
				return err
			}
			log := logger.WithComponent("migrate")
			log.Info().Msg("migrations completed")
			return closeFn()
		},
	}
}
