package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"metafetcher"
	"metafetcher/internal/pkg/server"
)

const shutdownTimeout = 10 * time.Second

// Runs the link-preview HTTP API until interrupted.
func newServeCommand() *cobra.Command {
	var (
		addr         string
		fetchTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve link previews over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			srv := server.New(logger, metafetcher.FetchMetadata, fetchTimeout)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errChan := make(chan error, 1)
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", addr))
				if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
					errChan <- serveErr
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case serveErr := <-errChan:
				logger.Error("server error", zap.Error(serveErr))
				return fmt.Errorf("server error: %w", serveErr)
			case sig := <-sigChan:
				logger.Info("shutdown signal received", zap.String("signal", sig.String()))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to stop server", zap.Error(err))
				return fmt.Errorf("failed to stop server: %w", err)
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 30*time.Second, "per-request fetch timeout")

	return cmd
}
