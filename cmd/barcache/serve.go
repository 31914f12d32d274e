package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/server"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve cached bars over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			l, store, err := newLoader(cfg)
			if err != nil {
				return err
			}

			if port == "" {
				port = cfg.Server.Port
			}

			httpServer := &http.Server{
				Addr:         ":" + port,
				Handler:      server.NewRouter(server.NewServer(l, store, logger), logger),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 5 * time.Minute, // a cache miss waits on the upstream fetch
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", zap.String("addr", httpServer.Addr), zap.String("cacheDir", store.Dir()))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default server.port)")
	return cmd
}
