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

	"serveon_backend/internal/dashboard"
	"serveon_backend/internal/exports"
	apphttp "serveon_backend/internal/http"
	"serveon_backend/internal/http/router"
	"serveon_backend/internal/navsearch"
	"serveon_backend/internal/navsearch/engine"
	"serveon_backend/internal/paymentterms"
	"serveon_backend/internal/records"
	"serveon_backend/migrations"
	"serveon_backend/platform/config"
	"serveon_backend/platform/db"
	"serveon_backend/platform/kvstore"
	"serveon_backend/platform/logger"
	"serveon_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	kv, closeKV := initKVStore(ctx, cfg, log)
	defer closeKV()

	archiver := initArchiver(ctx, cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	exportsModule := exports.NewModule(pool, archiver, val, log)
	closeQueue := initExportQueue(ctx, cfg, exportsModule.Service(), log)
	defer closeQueue()
	recordsModule, err := records.NewModule(pool, kv, exportsModule.Service(), val)
	if err != nil {
		log.Error("failed to initialize records module", "error", err)
		panic("failed to initialize records module: " + err.Error())
	}
	navsearchModule := navsearch.NewModule(engine.DefaultCatalog(), kv, cfg, val)
	dashboardModule := dashboard.NewModule(recordsModule.Service(), navsearchModule.Service())
	paymentTermsModule := paymentterms.NewModule(val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPinger(pool),
		Modules: []apphttp.Module{
			recordsModule,
			navsearchModule,
			dashboardModule,
			paymentTermsModule,
			exportsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initKVStore picks Redis when configured. A Redis that cannot be reached at
// startup falls back to the in-memory store; preferences then last until restart.
func initKVStore(ctx context.Context, cfg config.KVConfig, log *logger.Logger) (*kvstore.Safe, func()) {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; favorites and search history are kept in memory")
		return kvstore.NewSafe(kvstore.NewMemory(), log), func() {}
	}

	store, err := kvstore.NewRedis(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; falling back to memory", "error", err)
		return kvstore.NewSafe(kvstore.NewMemory(), log), func() {}
	}
	log.Info("redis key-value store connected", "prefix", cfg.GetKVKeyPrefix())

	return kvstore.NewSafe(store, log), func() {
		_ = store.Close()
	}
}

func initArchiver(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) exports.Archiver {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; CSV exports are not archived")
		return exports.NopArchiver{}
	}

	archiver, err := exports.NewMinIOArchiver(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
		return archiver.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", archiver.Bucket())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "exportsBucket", archiver.Bucket())

	return archiver
}

// initExportQueue moves export archival onto asynq when Redis is configured
// and starts the worker in this process. Without Redis, exports archive inline.
func initExportQueue(ctx context.Context, cfg config.QueueConfig, svc *exports.Service, log *logger.Logger) func() {
	if !cfg.IsRedisEnabled() {
		return func() {}
	}

	queue, err := exports.NewQueue(cfg)
	if err != nil {
		log.Error("failed to create export queue; archiving inline", "error", err)
		return func() {}
	}
	worker, err := exports.NewWorker(cfg, svc, log)
	if err != nil {
		_ = queue.Close()
		log.Error("failed to create export worker; archiving inline", "error", err)
		return func() {}
	}

	svc.UseQueue(queue)
	go worker.Run(ctx)
	log.Info("export worker started", "queue", cfg.GetAsynqQueueName())

	return func() { _ = queue.Close() }
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
