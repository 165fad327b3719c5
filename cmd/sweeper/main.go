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
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/providers/jetstream"
	"github.com/feral-file/ff-floor-indexer/internal/store"
	"github.com/feral-file/ff-floor-indexer/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "floor-ask-sweeper",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "floor-ask-sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting floor ask expiry sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	queue, err := jetstream.NewQueue(jetstream.Config{
		URL:                 cfg.NATS.URL,
		StreamName:          cfg.NATS.StreamName,
		Subject:             cfg.NATS.Subject,
		FailedStreamName:    cfg.NATS.FailedStreamName,
		CompletedStreamName: cfg.NATS.CompletedStreamName,
		MaxReconnects:       cfg.NATS.MaxReconnects,
		ReconnectWait:       cfg.NATS.ReconnectWait,
		ConnectionName:      cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), adapter.NewJSON(), clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer queue.Close()

	expirySweeper := sweeper.NewExpirySweeper(sweeper.ExpirySweeperConfig{
		Interval:           cfg.ExpirySweeper.Interval,
		BatchSize:          cfg.ExpirySweeper.BatchSize,
		ActivationLookback: cfg.ExpirySweeper.ActivationLookback,
	}, dataStore, queue, clock)

	logger.InfoCtx(ctx, "Initialized expiry sweeper",
		zap.Duration("interval", cfg.ExpirySweeper.Interval),
		zap.Int("batch_size", cfg.ExpirySweeper.BatchSize),
		zap.Duration("activation_lookback", cfg.ExpirySweeper.ActivationLookback),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := expirySweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Give the sweeper time to finish its cycle
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := expirySweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}
	cancel()

	logger.InfoCtx(shutdownCtx, "Sweeper stopped")
}
