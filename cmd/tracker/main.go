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

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ad_tracker/internal/config"
	"ad_tracker/internal/metrics"
	"ad_tracker/internal/publisher"
	"ad_tracker/internal/scheduler"
	"ad_tracker/internal/server"
	"ad_tracker/internal/service"
	"ad_tracker/internal/source/adlibrary"
	"ad_tracker/internal/storage"
	"ad_tracker/internal/storage/postgres"
	"ad_tracker/internal/storage/sqlite"
)

// stores groups the backend-specific store implementations.
type stores struct {
	db        *sqlx.DB
	pages     pageStore
	ads       service.AdReader
	statusLog statusLogStore
}

type pageStore interface {
	service.PageStore
	service.PageReader
	scheduler.PageLister
}

type statusLogStore interface {
	service.StatusLogStore
	server.HistoryStore
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single reconcile cycle over all tracked pages and exit")
	pageID := flag.String("page", "", "reconcile (and start tracking) a single page and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	st, err := openStores(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer st.db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	source := adlibrary.New(adlibrary.Config{
		BaseURL:           cfg.Source.BaseURL,
		APIKey:            cfg.Source.APIKey,
		Timeout:           cfg.Source.Timeout,
		RequestsPerSecond: cfg.Source.RequestsPerSecond,
		Burst:             cfg.Source.Burst,
		MaxAttempts:       cfg.Source.Retry.MaxAttempts,
		InitialBackoff:    cfg.Source.Retry.InitialBackoff,
		MaxBackoff:        cfg.Source.Retry.MaxBackoff,
	}, collector, logger)

	reconciler := service.NewReconciler(
		source,
		st.pages,
		st.ads,
		st.statusLog,
		storage.NewTransactionManager(st.db),
		pub,
		collector,
		logger,
		cfg.Tracker,
	)

	sched := scheduler.NewScheduler(st.pages, reconciler, collector, cfg.Tracker, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *pageID != "":
		summary, err := reconciler.ReconcilePage(ctx, *pageID)
		if err != nil {
			logger.Error("reconcile failed", "page_id", *pageID, "error", err)
			os.Exit(1)
		}
		logger.Info("page reconciled", "page_id", *pageID, "new", summary.New)
		return

	case *once:
		result, err := sched.RunCycle(ctx)
		if err != nil {
			logger.Error("reconcile cycle failed", "error", err)
			os.Exit(1)
		}
		if result.Failed > 0 {
			os.Exit(2)
		}
		return
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(
			sched,
			reconciler,
			service.NewStatsService(st.pages, st.ads),
			st.statusLog,
			metrics.Handler(registry),
			logger,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("ops server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", "error", err)
			cancel()
		}
	}()

	logger.Info("starting ad tracker",
		"driver", cfg.Database.Driver,
		"interval", cfg.Tracker.Interval,
		"max_pages", cfg.Tracker.MaxPages,
		"initial_limit", cfg.Tracker.InitialLimit,
		"publisher", cfg.RabbitMQ.Enabled,
	)

	sched.Start()

	<-ctx.Done()
	logger.Info("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown failed", "error", err)
	}

	sched.Stop()
}

func openStores(cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite database", "path", cfg.SQLitePath)
		return &stores{
			db:        db,
			pages:     sqlite.NewPageStore(db),
			ads:       sqlite.NewAdStore(db),
			statusLog: sqlite.NewStatusLogStore(db),
		}, nil

	case config.DriverPostgres:
		if cfg.Migrate {
			if err := postgres.RunMigrations(cfg.URL()); err != nil {
				return nil, err
			}
			logger.Info("database migrations applied")
		}

		db, err := sqlx.Connect("postgres", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping: %w", err)
		}
		logger.Info("connected to database")
		return &stores{
			db:        db,
			pages:     postgres.NewPageStore(db),
			ads:       postgres.NewAdStore(db),
			statusLog: postgres.NewStatusLogStore(db),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
