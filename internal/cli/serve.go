package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/askesis/internal/api"
	"github.com/terraincognita07/askesis/internal/db"
	"github.com/terraincognita07/askesis/internal/logger"
	"github.com/terraincognita07/askesis/internal/security"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logg, err := logger.New(cfg.Log.Mode, logger.Redaction{Enabled: cfg.Log.Redaction, HashSalt: cfg.Log.HashSalt})
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer logg.Sync()

	database, err := db.Open(cfg.DatabaseTarget(), logg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	signingKey, err := security.DeriveSigningKey(cfg.Auth.Secret)
	if err != nil {
		return fmt.Errorf("derive signing key: %w", err)
	}

	handler, err := api.NewHandler(database, signingKey, logg)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := api.NewApp(handler, api.AppConfig{
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		MetricsEnabled:   cfg.Metrics.Enabled,
	})

	sigCtx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logg.Error("server shutdown failed", "error", err)
		}
	}()

	logg.Info("askesis listening", "port", cfg.Server.Port, "metrics", cfg.Metrics.Enabled)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
