// cmd/intake-server/main.go
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

	"go.uber.org/zap"

	"kokos-intake/internal/api"
	"kokos-intake/internal/common/camunda"
	"kokos-intake/internal/common/config"
	"kokos-intake/internal/common/database"
	"kokos-intake/internal/common/logger"
	"kokos-intake/internal/common/metrics"
	"kokos-intake/internal/common/observability"
	"kokos-intake/internal/intake/catalog"
	"kokos-intake/internal/intake/gateway"
	"kokos-intake/internal/intake/notify"
	"kokos-intake/internal/intake/search"
	"kokos-intake/internal/intake/store"
	submitintake "kokos-intake/internal/workers/intake/submit-intake"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs, err := observability.New("intake-server", nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	tracing, err := observability.NewTracing(cfg.App.Name, cfg.App.Version, cfg.Tracing)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Catalog ---
	cat := catalog.Default()
	if cfg.Intake.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.Intake.CatalogPath)
		if err != nil {
			zapLog.Fatal("catalog load failed", zap.String("path", cfg.Intake.CatalogPath), zap.Error(err))
		}
	}
	zapLog.Info("Catalog loaded", zap.Int("questions", cat.Len()), zap.Int("groups", len(cat.Groups())))

	// --- Datastore ---
	// An unconfigured datastore is not fatal: every submission reports it.
	var (
		pg      *database.PostgresClient
		intakes gateway.IntakeStore
	)
	if cfg.Database.Postgres.Configured() {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		pgStore := store.NewPostgresIntakeStore(pg.DB)
		if cfg.Intake.EnsureSchema {
			if err := pgStore.CreateSchema(ctx); err != nil {
				zapLog.Fatal("intake schema setup failed", zap.Error(err))
			}
		}
		intakes = pgStore
		zapLog.Info("PostgreSQL connected successfully")
	} else {
		zapLog.Warn("Datastore not configured; submissions will be rejected")
	}

	// --- Sessions ---
	var (
		rdb      *database.RedisClient
		sessions api.SessionStore
	)
	if cfg.Database.Redis.Enabled() {
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis client failed", zap.Error(err))
		}
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		sessions = store.NewRedisSessionStore(rdb.Client)
		zapLog.Info("Redis connected successfully")
	} else {
		sessions = store.NewMemorySessionStore()
		zapLog.Info("Redis not configured; sessions are kept in memory")
	}

	// --- Notifications ---
	notifier, err := notify.NewNotifier(ctx, cfg.Notifications)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}
	var publisher notify.Publisher
	if cfg.Intake.PublishSubmitted {
		publisher, err = notify.NewPublisher(ctx, cfg.Notifications)
		if err != nil {
			zapLog.Fatal("publisher init failed", zap.Error(err))
		}
	}

	// --- Search index (optional) ---
	var indexer search.Indexer
	if cfg.Database.Elasticsearch.Enabled() {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		if version, err := es.Version(ctx); err != nil {
			zapLog.Warn("Elasticsearch not reachable; indexing will report failures", zap.Error(err))
		} else {
			zapLog.Info("Elasticsearch reachable", zap.String("version", version))
		}
		indexer = search.NewElasticIndexer(es.Client, cfg.Database.Elasticsearch.Index)
		zapLog.Info("Search indexing enabled", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	gw := gateway.New(gateway.FromAppConfig(cfg), gateway.Dependencies{
		Store:     intakes,
		Notifier:  notifier,
		Publisher: publisher,
		Indexer:   indexer,
		Logger:    log.WithFields(map[string]interface{}{"component": "gateway"}),
		Metrics:   metrics.Intake{},
		Tracer:    tracing.Tracer("kokos-intake/gateway"),
	})

	// --- Zeebe worker (optional) ---
	var (
		zeebe  *camunda.Client
		worker *camunda.CamundaWorker
	)
	if cfg.Camunda.Enabled() && config.IsWorkerEnabled(cfg, submitintake.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewFromConfig(cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}

		wcfg := submitintake.LoadConfig(cfg)
		worker = camunda.NewWorker(
			zeebe.GetClient(),
			submitintake.TaskType,
			wcfg.MaxJobsActive,
			wcfg.Timeout,
			submitintake.NewHandler(wcfg, gw, log),
			log,
		)
		worker.Start()
	}

	ready := func(ctx context.Context) error {
		if pg != nil {
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				return err
			}
		}
		if zeebe != nil {
			if err := zeebe.HealthCheck(ctx); err != nil {
				return fmt.Errorf("zeebe: %w", err)
			}
		}
		return nil
	}

	router := api.NewRouter(api.Options{
		Catalog:        cat,
		Sessions:       sessions,
		Gateway:        gw,
		Logger:         log.WithFields(map[string]interface{}{"component": "api"}),
		Observability:  obs,
		Ready:          ready,
		SessionTTL:     config.GetDuration(cfg.Intake.SessionTTL),
		DraftTTL:       config.GetDuration(cfg.Intake.DraftTTL),
		SubmitTimeout:  config.GetDuration(cfg.Intake.SubmitTimeout),
		MaxBodyBytes:   cfg.Intake.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if worker != nil {
		worker.Stop(shutdownCtx)
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Tracing shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("Intake server stopped gracefully")
}
