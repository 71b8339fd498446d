package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/kingdom-api/internal/config"
	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/events"
	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
	kingdomorchestrator "github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/kingdom-api/internal/redis"
	kingdomrepo "github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom"
	"github.com/KirkDiggler/kingdom-api/internal/rules"
	"github.com/KirkDiggler/kingdom-api/internal/simulation"
)

const shutdownTimeout = 30 * time.Second

var (
	configPath string
	overrides  = config.Default()
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the kingdom server",
	Long:  `Start the HTTP API, the websocket event hub and the tick loop.`,
	RunE:  runServer,
}

func init() {
	f := serverCmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config file")
	f.StringVar(&overrides.HTTPAddr, "addr", overrides.HTTPAddr, "HTTP listen address")
	f.DurationVar(&overrides.TickInterval, "tick-interval", overrides.TickInterval, "Simulation tick interval")
	f.IntVar(&overrides.MaxCatchUpTicks, "max-catch-up-ticks", overrides.MaxCatchUpTicks, "Most ticks applied to one kingdom in a single pass")
	f.StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "debug, info, warn or error")
	f.StringVar(&overrides.LogFormat, "log-format", overrides.LogFormat, "text or json")
	f.StringVar(&overrides.RulesFile, "rules", "", "Balance rules YAML; embedded defaults when empty")
	f.StringSliceVar(&overrides.AllowedOrigins, "allowed-origin", overrides.AllowedOrigins, "CORS origin, repeatable")
	f.StringVar(&overrides.Storage.Backend, "storage", overrides.Storage.Backend, "redis, sqlite or memory")
	f.StringVar(&overrides.Storage.RedisAddr, "redis-addr", overrides.Storage.RedisAddr, "Redis host:port")
	f.StringVar(&overrides.Storage.RedisURL, "redis-url", "", "Redis URL, takes precedence over --redis-addr")
	f.StringVar(&overrides.Storage.SQLitePath, "sqlite-path", "", "SQLite database file")
}

// loadConfig reads the config file and applies only the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("addr", func() { cfg.HTTPAddr = overrides.HTTPAddr })
	set("tick-interval", func() { cfg.TickInterval = overrides.TickInterval })
	set("max-catch-up-ticks", func() { cfg.MaxCatchUpTicks = overrides.MaxCatchUpTicks })
	set("log-level", func() { cfg.LogLevel = overrides.LogLevel })
	set("log-format", func() { cfg.LogFormat = overrides.LogFormat })
	set("rules", func() { cfg.RulesFile = overrides.RulesFile })
	set("allowed-origin", func() { cfg.AllowedOrigins = overrides.AllowedOrigins })
	set("storage", func() { cfg.Storage.Backend = overrides.Storage.Backend })
	set("redis-addr", func() { cfg.Storage.RedisAddr = overrides.Storage.RedisAddr })
	set("redis-url", func() { cfg.Storage.RedisURL = overrides.Storage.RedisURL })
	set("sqlite-path", func() { cfg.Storage.SQLitePath = overrides.Storage.SQLitePath })

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func loadRules(path string) (*rules.Rules, error) {
	if path == "" {
		return rules.Default()
	}
	return rules.LoadFile(path)
}

// openRepository builds the configured kingdom store. The returned closer
// releases its connection.
func openRepository(ctx context.Context, cfg *config.Config, clk clock.Clock) (kingdomrepo.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		var (
			client redisclient.Client
			err    error
		)
		if cfg.Storage.RedisURL != "" {
			client, err = redisclient.NewFromURL(cfg.Storage.RedisURL, nil)
		} else {
			client, err = redisclient.NewClient(cfg.Storage.RedisAddr, nil)
		}
		if err != nil {
			return nil, nil, err
		}
		closer := func() { _ = client.Close() }
		if err := redisclient.Ping(ctx, client); err != nil {
			closer()
			return nil, nil, err
		}
		repo, err := kingdomrepo.NewRedis(&kingdomrepo.RedisConfig{Client: client, Clock: clk})
		if err != nil {
			closer()
			return nil, nil, err
		}
		return repo, closer, nil

	case config.BackendSQLite:
		db, err := kingdomrepo.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closer := func() { closeDB(db) }
		repo, err := kingdomrepo.NewSQLite(ctx, &kingdomrepo.SQLiteConfig{DB: db, Clock: clk})
		if err != nil {
			closer()
			return nil, nil, err
		}
		return repo, closer, nil

	default:
		slog.WarnContext(ctx, "using in-memory storage, kingdoms are lost on restart")
		return kingdomrepo.NewInMemory(clk), func() {}, nil
	}
}

func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gameRules, err := loadRules(cfg.RulesFile)
	if err != nil {
		return errors.Wrap(err, "failed to load rules")
	}

	eng, err := engine.New(&engine.Config{
		Rules:       gameRules,
		IDGenerator: idgen.NewUUID("q"),
	})
	if err != nil {
		return err
	}

	clk := clock.New()
	repo, closeRepo, err := openRepository(ctx, cfg, clk)
	if err != nil {
		return errors.Wrap(err, "failed to open storage")
	}
	defer closeRepo()

	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	hub := events.NewHub(&events.HubConfig{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
		BroadcastBuffer: 256,
	})
	go hub.Run(ctx)

	svc, err := kingdomorchestrator.NewOrchestrator(&kingdomorchestrator.Config{
		Repository:      repo,
		Engine:          eng,
		IDGenerator:     idgen.NewUUID("kdm"),
		Clock:           clk,
		Publisher:       hub,
		MaxCatchUpTicks: cfg.MaxCatchUpTicks,
	})
	if err != nil {
		return err
	}

	runner, err := simulation.NewRunner(&simulation.Config{
		Service:  svc,
		Interval: cfg.TickInterval,
		Clock:    clk,
	})
	if err != nil {
		return err
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		KingdomService: svc,
		Events:         http.HandlerFunc(hub.ServeWS),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create kingdom handler")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.InfoContext(ctx, "http server starting",
			"addr", cfg.HTTPAddr,
			"storage", cfg.Storage.Backend,
			"tick_interval", cfg.TickInterval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- errors.WrapWithCode(err, errors.CodeUnavailable, "failed to serve")
		}
	}()
	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- errors.Wrap(err, "simulation stopped")
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal, gracefully stopping")
	case err := <-errChan:
		slog.Error("server failed", "error", err)
		cancel()
		shutdown(srv)
		return err
	}

	shutdown(srv)
	return nil
}

func shutdown(srv *http.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown timeout exceeded, forcing stop", "error", err)
		_ = srv.Close()
		return
	}
	slog.Info("server stopped gracefully")
}
