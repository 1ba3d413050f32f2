package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/handlers"
	"github.com/diewo77/paytrack/internal/logger"
	"github.com/diewo77/paytrack/internal/server"
)

func newServeCmd(getCfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			log := logger.WithComponent("main")

			svc, closeFn, err := newService(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			srv := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      server.NewRouter(handlers.NewInvoiceHandler(svc)),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info().Msg("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Info().Msg("server stopped gracefully")
			return nil
		},
	}
}
