package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custmaker/internal/bootstrap"
	"custmaker/pkg/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd runs the HTTP API and dashboard.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison dashboard and API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, cleanup, err := bootstrap.NewAPI(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server (timeout: %v)...", shutdownTimeout)
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("Error shutting down: %v", err)
		} else {
			logger.Info("API server shut down gracefully")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("Starting API server on %s", addr)
	return app.Listen(addr)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
