// Package main implements the entry point for uabridge, a gateway that
// exposes the variables of one OPC UA server over a plain HTTP interface.
// The address space is walked once at startup; the resulting variable and
// type indexes are frozen before the listener accepts traffic.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/uabridge/browse"
	"github.com/c360/uabridge/config"
	httpgateway "github.com/c360/uabridge/gateway/http"
	"github.com/c360/uabridge/health"
	"github.com/c360/uabridge/metric"
	"github.com/c360/uabridge/session"
	"github.com/c360/uabridge/typemap"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "uabridge"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Bridge failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	// Signal-aware context drives the whole lifecycle: connect, discovery,
	// and serving all stop on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := metric.NewRegistry()

	sess, err := session.Connect(ctx, cfg.Endpoint, cfg.ConnectAttempts)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Endpoint, err)
	}
	slog.Info("Session established", "endpoint", cfg.Endpoint)

	gw, err := buildGateway(ctx, cfg, sess, metrics)
	if err != nil {
		_ = sess.Close(context.Background())
		return err
	}

	return serve(ctx, cliCfg, cfg, sess, gw, metrics)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting uabridge (OPC UA to HTTP variable bridge)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, false, nil
}

// initializeConfiguration loads the config file and applies CLI overrides
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Flags win over file values
	if cliCfg.Endpoint != "" {
		cfg.Endpoint = cliCfg.Endpoint
	}
	if cliCfg.HTTPAddr != "" {
		cfg.HTTP.Addr = cliCfg.HTTPAddr
	}
	if cliCfg.StaticDir != "" {
		cfg.HTTP.StaticDir = cliCfg.StaticDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// buildGateway runs the two startup passes (discovery, type resolution) and
// constructs the gateway over the frozen indexes. Any failure here is fatal;
// the bridge never serves a partial index.
func buildGateway(
	ctx context.Context,
	cfg *config.Config,
	sess session.Session,
	metrics *metric.Registry,
) (*httpgateway.Gateway, error) {
	start := time.Now()
	ids, err := browse.DiscoverVariables(ctx, sess, cfg.RootNode)
	if err != nil {
		return nil, fmt.Errorf("discover variables from %s: %w", cfg.RootNode, err)
	}
	elapsed := time.Since(start)
	metrics.DiscoveryDuration.Set(elapsed.Seconds())
	metrics.VariablesDiscovered.Set(float64(len(ids)))
	slog.Info("Address space discovered",
		"root", cfg.RootNode,
		"variables", len(ids),
		"elapsed", elapsed)

	types, err := typemap.Resolve(ctx, sess, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve variable types: %w", err)
	}
	slog.Info("Variable types resolved", "count", len(types))

	gw, err := httpgateway.New(cfg.Gateway, sess, ids, types, metrics)
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}
	return gw, nil
}

// serve starts the HTTP listener and blocks until shutdown completes. The
// shutdown order is fixed: stop accepting, drain the server, close the
// session — each step awaited before the next.
func serve(
	ctx context.Context,
	cliCfg *CLIConfig,
	cfg *config.Config,
	sess session.Session,
	gw *httpgateway.Gateway,
	metrics *metric.Registry,
) error {
	if err := gw.Start(); err != nil {
		_ = sess.Close(context.Background())
		return fmt.Errorf("start gateway: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", health.Handler(func() health.Status {
		return health.Aggregate(appName, []health.Status{
			gw.Health(),
			sessionHealth(sess),
		})
	}))
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/ui/", http.StripPrefix("/ui/", http.FileServer(http.Dir(cfg.HTTP.StaticDir))))
	gw.RegisterHTTPHandlers("/", mux)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP listener started",
			"addr", cfg.HTTP.Addr,
			"variables", gw.VariableCount(),
			"static_dir", cfg.HTTP.StaticDir)
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cliCfg.ShutdownTimeout)

		gw.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cliCfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown incomplete", "error", err)
		}
		if err := sess.Close(shutdownCtx); err != nil {
			slog.Warn("Session close failed", "error", err)
		}

		slog.Info("Shutdown complete")
		return nil
	})

	return g.Wait()
}

// sessionHealth reports the session sub-status for the /healthz aggregate.
// Channel loss degrades the report; requests keep flowing and fail with 500s
// until the server comes back.
func sessionHealth(sess session.Session) health.Status {
	if !sess.Connected() {
		return health.NewDegraded("session", "secure channel not established")
	}
	return health.NewHealthy("session", "session established")
}
