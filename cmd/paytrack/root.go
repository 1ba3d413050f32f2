package main

import (
	"github.com/spf13/cobra"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/logger"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfg *config.Config
	root := &cobra.Command{
		Use:           "paytrack",
		Short:         "Track invoices and the payments recorded against them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return logger.Setup(logger.LogConfig{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cmd.ErrOrStderr(),
			})
		},
	}
	getCfg := func() *config.Config { return cfg }
	root.AddCommand(
		newServeCmd(getCfg),
		newMigrateCmd(getCfg),
		newInvoiceCmd(getCfg),
		newPaymentCmd(getCfg),
	)
	return root
}
