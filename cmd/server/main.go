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

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crease-labs/matchdesk/internal/config"
	"github.com/crease-labs/matchdesk/internal/handlers"
	"github.com/crease-labs/matchdesk/internal/logic"
	"github.com/crease-labs/matchdesk/internal/predictor"
	"github.com/crease-labs/matchdesk/internal/session"
	"github.com/crease-labs/matchdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(cfg, logger); err != nil {
		sugar.Fatalw("Server exited with error", "error", err)
	}
	sugar.Info("Server exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := loadRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	sugar.Infow("Roster registry loaded", "teams", registry.Len())

	// Sessions
	var (
		store       session.Store
		memory      *session.MemoryStore
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
		sugar.Info("Using Redis session store")
	} else {
		memory = session.NewMemoryStore(cfg.SessionTTL)
		store = memory
		sugar.Info("Using in-memory session store")
	}

	// Audit
	var (
		sink   worker.Sink = worker.NopSink{}
		chConn driver.Conn
	)
	if cfg.ClickHouseURL != "" {
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return fmt.Errorf("parse clickhouse url: %w", err)
		}
		chConn, err = clickhouse.Open(opts)
		if err != nil {
			return fmt.Errorf("open clickhouse: %w", err)
		}
		defer chConn.Close()
		if err := chConn.Ping(ctx); err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		sink = worker.NewClickHouseSink(chConn)
		sugar.Info("Auditing predictions to ClickHouse")
	}
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.AuditWorkers,
		QueueSize:     cfg.AuditQueueSize,
		BatchSize:     cfg.AuditBatchSize,
		FlushInterval: cfg.AuditFlushInterval,
		Sink:          sink,
		Logger:        logger,
	})

	client := predictor.New(predictor.Config{
		URL:             cfg.PredictionURL,
		Timeout:         cfg.PredictionTimeout,
		BreakerFailures: uint32(cfg.BreakerFailures),
		BreakerCooldown: cfg.BreakerCooldown,
		Logger:          logger,
	})

	h := handlers.New(handlers.Config{
		Registry:       registry,
		Sessions:       session.NewManager(store, logger),
		Dispatcher:     logic.NewDispatcher(client, cfg.PredictionTimeout, logger),
		AuditQueue:     pool,
		ClickHouse:     chConn,
		Redis:          redisClient,
		CSRFToken:      cfg.CSRFToken,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The pool outlives the signal context; drain stops it once requests are done.
	pool.Start(context.Background())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("Server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("Shutting down server...")
		return drain(srv, pool, 10*time.Second)
	})

	if memory != nil {
		g.Go(func() error {
			sweepSessions(ctx, memory, cfg.SessionTTL, sugar)
			return nil
		})
	}

	return g.Wait()
}

// drain stops accepting requests, waits for in-flight ones and only then
// flushes the audit pool, so predictions settled while draining are recorded.
func drain(srv *http.Server, pool *worker.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	pool.Stop()
	return err
}

// loadRegistry reads the roster registry from ROSTER_FILE, or from Postgres
// when no file is configured.
func loadRegistry(ctx context.Context, cfg *config.Config) (*logic.Registry, error) {
	if cfg.RosterFile != "" {
		f, err := os.Open(cfg.RosterFile)
		if err != nil {
			return nil, fmt.Errorf("open roster file: %w", err)
		}
		defer f.Close()
		return logic.LoadRegistryJSON(f)
	}

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	return logic.LoadRegistryPostgres(ctx, pg)
}

func sweepSessions(ctx context.Context, store *session.MemoryStore, ttl time.Duration, logger *zap.SugaredLogger) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Debugw("Expired sessions removed", "count", n, "remaining", store.Len())
			}
		}
	}
}
