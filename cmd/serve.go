package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/massimiliano76/lapi/config"
	lapi "github.com/massimiliano76/lapi/http"
	"github.com/massimiliano76/lapi/logging"
	"github.com/massimiliano76/lapi/session/storage"
	"github.com/massimiliano76/lapi/telemetry"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, &cfg.Telemetry)
	if err != nil {
		return err
	}

	logger := logging.New(&cfg.Logging)

	store := storage.NewMemorySessionStore()
	defer store.Close()

	server := lapi.NewServer(cfg.Telemetry.ServiceName, newRouter(&cfg.Router, store), logger, serverOptions(&cfg.Server))

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case err = <-serverErrCh:
	case <-ctx.Done():
		stop()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		err = server.Shutdown(shutdownCtx)
		if err == nil {
			logger.Info("server stopped")
		}
	}

	if telemetryErr := shutdownTelemetry(context.Background()); telemetryErr != nil {
		logger.Error("telemetry shutdown failed", "error", telemetryErr)
	}

	return err
}

func serverOptions(cfg *config.ServerConfig) lapi.ServerOptions {
	opts := lapi.ServerOptions{
		Addr:           cfg.Addr,
		ReadTimeout:    cfg.ReadTimeoutDuration(),
		WriteTimeout:   cfg.WriteTimeoutDuration(),
		IdleTimeout:    cfg.IdleTimeoutDuration(),
		MaxHeaderBytes: cfg.MaxHeaderBytes(),
	}

	if cfg.HTTP3.Enabled {
		opts.HTTP3 = &lapi.HTTP3Options{
			Addr:     cfg.HTTP3.Addr,
			CertFile: cfg.HTTP3.CertFile,
			KeyFile:  cfg.HTTP3.KeyFile,
		}
	}

	return opts
}
