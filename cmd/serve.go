package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-console/app"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		Example: `  # Start server on PORT or 8080
  catalog-console serve

  # Start server on a custom port
  catalog-console serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if port != "" {
				cfg.Port = port
			}

			application, err := app.Initialize(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			// Listen on all interfaces, required inside containers
			addr := "0.0.0.0:" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           application.Handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("🚀 Server starting", zap.String("addr", addr), zap.String("baseURL", cfg.BaseURL))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("Server shutdown failed", zap.Error(err))
					return err
				}
				logger.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
