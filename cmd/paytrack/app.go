package main

import (
	"errors"
	"fmt"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/db"
	"github.com/diewo77/paytrack/internal/logger"
	"github.com/diewo77/paytrack/internal/services"
	"github.com/diewo77/paytrack/internal/store"
)

// openStore builds the store selected by STORE_DRIVER, migrating SQL schemas
// on the way. The returned func releases it.
func openStore(cfg *config.Config) (store.Store, func() error, error) {
	if cfg.Database.Driver == config.DriverBolt {
		bs, err := store.NewBoltStore(cfg.Database.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return bs, bs.Close, nil
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	if err := migrate(cfg, gdb); err != nil {
		return nil, nil, errors.Join(err, closeFn())
	}
	return store.NewGormStore(gdb), closeFn, nil
}

func newService(cfg *config.Config) (*services.InvoiceService, func() error, error) {
	st, closeFn, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	var opts []services.Option
	if cfg.App.StrictBalance {
		opts = append(opts, services.WithStrictBalance())
	}
	log := logger.WithComponent("app")
	log.Debug().
		Str("driver", cfg.Database.Driver).
		Bool("strict_balance", cfg.App.StrictBalance).
		Msg("store ready")
	return services.NewInvoiceService(st, opts...), closeFn, nil
}
