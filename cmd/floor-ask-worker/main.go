package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
	"github.com/feral-file/ff-floor-indexer/internal/config"
	"github.com/feral-file/ff-floor-indexer/internal/floorask"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/providers/jetstream"
	"github.com/feral-file/ff-floor-indexer/internal/registry"
	"github.com/feral-file/ff-floor-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadFloorAskWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "floor-ask-worker",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "floor-ask-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting floor ask worker")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	// Connect to NATS JetStream
	queue, err := jetstream.NewQueue(jetstream.Config{
		URL:                 cfg.NATS.URL,
		StreamName:          cfg.NATS.StreamName,
		Subject:             cfg.NATS.Subject,
		ConsumerName:        cfg.NATS.ConsumerName,
		FailedStreamName:    cfg.NATS.FailedStreamName,
		CompletedStreamName: cfg.NATS.CompletedStreamName,
		MaxReconnects:       cfg.NATS.MaxReconnects,
		ReconnectWait:       cfg.NATS.ReconnectWait,
		ConnectionName:      cfg.NATS.ConnectionName,
		MaxAttempts:         cfg.Queue.MaxAttempts,
		InitialBackoff:      cfg.Queue.InitialBackoff,
		JobTimeout:          cfg.Queue.JobTimeout,
		FailedSetSize:       cfg.Queue.FailedSetSize,
		CompletedSetSize:    cfg.Queue.CompletedSetSize,
		Concurrency:         cfg.Worker.Concurrency,
	}, adapter.NewNatsJetStream(), adapter.NewJSON(), clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer queue.Close()

	if err := queue.EnsureStreams(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to ensure JetStream streams", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))

	blocklist, err := registry.LoadBlocklist(cfg.Worker.BlocklistFile, adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load contract blocklist", zap.Error(err), zap.String("file", cfg.Worker.BlocklistFile))
	}

	worker := floorask.NewWorker(dataStore, clock, floorask.Config{
		MaxConflictRetries: cfg.Worker.MaxConflictRetries,
		Blocklist:          blocklist,
	})

	// Consume until shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- queue.Consume(ctx, worker)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		// In-flight jobs finish before the consumer returns
		if err := <-errCh; err != nil {
			logger.ErrorCtx(ctx, err)
		}
	case err := <-errCh:
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "consumer"))
		}
	}

	logger.InfoCtx(ctx, "Floor ask worker stopped")
}
