package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/okian/painel/internal/app"
	"github.com/okian/painel/pkg/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				opts.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", opts.cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", opts.cfg.Addr, err)
			}
			svc, err := app.New(opts.cfg, app.WithLogger(logger.Get()))
			if err != nil {
				_ = ln.Close()
				return err
			}
			return serve(ctx, svc, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides addr)")
	return cmd
}

// serve starts the dashboard on ln and blocks until ctx is cancelled, then
// shuts the server down gracefully.
func serve(ctx context.Context, svc *app.Service, ln net.Listener) error {
	log := logger.Get()

	if err := svc.Start(ctx); err != nil {
		_ = ln.Close()
		return err
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Handler:           svc.Handler(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
