package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdcanvas/simulation-core/internal/engine"
	"github.com/sdcanvas/simulation-core/internal/server"
	"github.com/sdcanvas/simulation-core/pkg/logger"
)

var serveHTTPAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation daemon with the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := server.NewRunStore()
		metrics := server.NewMetrics()
		executor := server.NewRunExecutor(store, engine.New(), metrics)
		httpServer := server.NewHTTPServer(store, executor, metrics)

		srv := &http.Server{
			Addr:              serveHTTPAddr,
			Handler:           httpServer.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", serveHTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", ":8080", "HTTP listen address")
}
