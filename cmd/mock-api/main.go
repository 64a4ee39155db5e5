package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/painel/internal/fixture"
	"github.com/okian/painel/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr      = ":3000"
	defaultEmpresas  = 200
	defaultMonths    = 12
	shutdownTimeout  = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", defaultAddr, "Listen address")
		count    = flag.Int("empresas", defaultEmpresas, "Number of companies to generate")
		months   = flag.Int("months", defaultMonths, "Spread registration dates over this many months")
		latency  = flag.Duration("latency", 0, "Delay added to every JSON response")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of generator workers")
		logLevel = flag.String("log-level", "info", "Log level")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixture.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("mock-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	empresas, err := fixture.Generate(ctx, fixture.Config{
		Count:   *count,
		Workers: *workers,
		Months:  *months,
	})
	if err != nil {
		log.Fatal(ctx, "failed to generate empresas", logger.Error(err))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fixture.Handler(empresas, *latency),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving mock upstream",
			logger.String("addr", *addr),
			logger.Int("empresas", len(empresas)),
			logger.Duration("latency", *latency))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "mock upstream stopped")
}
