package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"contact-pipeline/internal/app"
	"contact-pipeline/internal/config"
	"contact-pipeline/internal/infra/queue"
	workerPkg "contact-pipeline/internal/infra/worker"
	"contact-pipeline/internal/observability/logging"
	"contact-pipeline/internal/observability/metrics"
	"contact-pipeline/internal/usecase/notify"
)

func main() {
	_ = godotenv.Load()

	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("gauge_schedule", workerConfig.GaugeSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("summary_timeout", workerConfig.JobTimeout),
		slog.String("queue_key", workerConfig.QueueKey),
		slog.Int("health_port", workerConfig.HealthPort))

	cfg := config.LoadAppConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", logging.Err(err))
		os.Exit(1)
	}
	if cfg.RedisURL == "" {
		logger.Error("the worker consumes the Redis summary queue; REDIS_URL must be set")
		os.Exit(1)
	}
	metrics.SetBuildInfo(cfg.Version, "worker")

	summary, err := app.NewSummary(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build summarizer", logging.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := summary.Close(); err != nil {
			logger.Warn("failed to close summarizer", logging.Err(err))
		}
	}()

	rdb, err := queue.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", logging.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis client", logging.Err(err))
		}
	}()
	jobs := queue.NewRedisQueue(rdb, workerConfig.QueueKey)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, summary.Runner, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := healthServer.Start(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return notify.NewConsumer(jobs, summary.Runner, workerConfig.JobTimeout).Run(gctx)
	})

	store := openGaugeStore(ctx, logger, cfg)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close database", logging.Err(err))
			}
		}()
	}
	scheduler, err := workerPkg.NewScheduler(workerConfig, refreshGauges(store, jobs), workerMetrics, logger)
	if err != nil {
		logger.Error("invalid gauge schedule", logging.Err(err))
		os.Exit(1)
	}
	g.Go(func() error {
		scheduler.RunOnce()
		scheduler.Run(gctx)
		return nil
	})

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("health_addr", healthAddr),
		slog.String("version", cfg.Version))

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped with error", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// initLogger initializes and returns the JSON logger at LOG_LEVEL.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// openGaugeStore opens the Postgres store for the stored submission gauge.
// The in-memory store lives in the API process, so there is nothing to
// count here otherwise.
func openGaugeStore(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) *app.Store {
	if cfg.StoreType != config.StorePostgres {
		logger.Info("stored submission gauge disabled", slog.String("store", cfg.StoreType))
		return nil
	}
	store, err := app.OpenStore(ctx, cfg, false)
	if err != nil {
		logger.Error("failed to open submission store", logging.Err(err))
		os.Exit(1)
	}
	return store
}

// refreshGauges updates the queue depth and, when store is set, the store
// gauges.
func refreshGauges(store *app.Store, jobs *queue.RedisQueue) workerPkg.RefreshFunc {
	return func(ctx context.Context) error {
		err := metrics.RefreshQueueDepth(ctx, jobs)
		if store != nil {
			err = errors.Join(err, store.RefreshGauges(ctx))
		}
		return err
	}
}
