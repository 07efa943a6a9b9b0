package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"aeroprofile/internal/api"
	"aeroprofile/pkg/cache"
	"aeroprofile/pkg/config"
	"aeroprofile/pkg/flight"
	"aeroprofile/pkg/logging"
	"aeroprofile/pkg/profile"
	"aeroprofile/pkg/tracker"
	"aeroprofile/pkg/version"
)

const defaultConfigPath = "configs/aeroprofile.yaml"

var (
	configPath = flag.String("config", defaultConfigPath, "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	// A missing .env is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("AeroProfile Started", "version", version.Version)

	tr := tracker.New()
	calc := flight.NewCalculator(appCfg.Performance,
		flight.WithTracker(tr),
		flight.WithCache(cache.NewLRU[float64, profile.Profile](appCfg.Cache.Profiles, appCfg.Cache.TTL.Std())),
		flight.WithCellResolution(appCfg.Geo.H3Resolution),
	)

	handler := api.NewRouter(
		api.NewFlightHandler(calc, tr, appCfg.Geo.TrackSamples),
		api.NewStreamHandler(calc, tr, appCfg.Stream.Steps, appCfg.Stream.Interval.Std()),
		api.NewStatsHandler(tr),
		cancel,
	)
	srv := api.NewServer(appCfg.Server.Address, loggingMiddleware(handler))

	return runServerLifecycle(ctx, srv)
}

func runServerLifecycle(ctx context.Context, srv *http.Server) error {
	slog.Info("Starting server", "addr", srv.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "duration", time.Since(start))
	})
}
