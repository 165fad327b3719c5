package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
	"github.com/feral-file/ff-floor-indexer/internal/cli"
	"github.com/feral-file/ff-floor-indexer/internal/config"
	"github.com/feral-file/ff-floor-indexer/internal/floorask"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/providers/jetstream"
	"github.com/feral-file/ff-floor-indexer/internal/registry"
	"github.com/feral-file/ff-floor-indexer/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.NewRootCommand(connect).ExecuteContext(ctx)
	stop()
	logger.Flush(2 * time.Second)

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}

// connect builds the backends a command asked for from the loaded configuration
func connect(ctx context.Context, opts *cli.RootOptions, need cli.Need) (*cli.Services, error) {
	config.ChdirRepoRoot()
	cfg, err := config.LoadCLIConfig(opts.ConfigFile, opts.EnvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Service:         "floor-ask-cli",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "floor-ask-cli",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	clock := adapter.NewClock()
	svc := &cli.Services{}
	var closers []func()
	svc.Close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if need&cli.NeedQueue != 0 {
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
		}, adapter.NewNatsJetStream(), adapter.NewJSON(), clock)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		closers = append(closers, queue.Close)

		if err := queue.EnsureStreams(ctx); err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to ensure JetStream streams: %w", err)
		}
		svc.Queue = queue
		svc.Failed = queue
		logger.DebugCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	if need&cli.NeedStore != 0 {
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to configure connection pool: %w", err)
		}
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})

		blocklist, err := registry.LoadBlocklist(cfg.Worker.BlocklistFile, adapter.NewJSON())
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to load contract blocklist: %w", err)
		}

		svc.Store = store.NewPGStore(db)
		svc.Worker = floorask.NewWorker(svc.Store, clock, floorask.Config{
			MaxConflictRetries: cfg.Worker.MaxConflictRetries,
			Blocklist:          blocklist,
		})
		logger.DebugCtx(ctx, "Connected to database", zap.String("host", cfg.Database.Host))
	}

	return svc, nil
}
