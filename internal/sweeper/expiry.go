package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/messaging"
	"github.com/feral-file/ff-floor-indexer/internal/store"
)

const (
	DEFAULT_SWEEP_INTERVAL      = time.Minute
	DEFAULT_SWEEP_BATCH_SIZE    = 500
	DEFAULT_ACTIVATION_LOOKBACK = time.Hour
)

// ExpirySweeperConfig holds configuration for the expiry sweeper
type ExpirySweeperConfig struct {
	Interval           time.Duration // Time to sleep between sweep cycles
	BatchSize          int           // Collections to enqueue per cycle and per kind
	ActivationLookback time.Duration // How far back the first cycle looks for orders that became live
}

// expirySweeper enqueues recompute jobs at both edges of order validity windows. Neither an
// order expiring nor an order becoming live produces a chain event, so nothing else would
// trigger the recompute.
type expirySweeper struct {
	config    ExpirySweeperConfig
	store     store.Store
	queue     messaging.JobQueue
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}

	// activatedSince is the lower bound of the next activation window; zero before the first cycle
	activatedSince time.Time
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(config ExpirySweeperConfig, st store.Store, queue messaging.JobQueue, clock adapter.Clock) Sweeper {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_SWEEP_INTERVAL
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_SWEEP_BATCH_SIZE
	}
	if config.ActivationLookback <= 0 {
		config.ActivationLookback = DEFAULT_ACTIVATION_LOOKBACK
	}

	return &expirySweeper{
		config:    config,
		store:     st,
		queue:     queue,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *expirySweeper) Name() string {
	return "floor-ask-expiry-sweeper"
}

// Start runs a sweep cycle every interval
func (s *expirySweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting floor ask expiry sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Expiry sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Expiry sweeper stop requested")
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}

			s.sleep(ctx, s.config.Interval)
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *expirySweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping floor ask expiry sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Expiry sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Expiry sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle enqueues an expiry job per collection whose floor order expired and a
// revalidation job per collection undercut by an order that became live since the last cycle
func (s *expirySweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()

	expired, err := s.store.GetExpiredFloorAsks(ctx, startTime, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get expired floor asks: %w", err)
	}

	since := s.activatedSince
	if since.IsZero() {
		since = startTime.Add(-s.config.ActivationLookback)
	}
	activated, err := s.store.GetActivatedFloorAsks(ctx, since, startTime, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get activated floor asks: %w", err)
	}

	jobs := make([]domain.FloorAskJob, 0, len(expired)+len(activated))
	for _, e := range expired {
		jobs = append(jobs, staleFloorAskJob(domain.FloorAskEventKindExpiry, e))
	}
	for _, a := range activated {
		jobs = append(jobs, staleFloorAskJob(domain.FloorAskEventKindRevalidation, a))
	}

	if len(jobs) > 0 {
		if err := s.enqueueWithRetry(ctx, jobs); err != nil {
			return fmt.Errorf("failed to enqueue sweeper jobs: %w", err)
		}
	}

	// a full batch may have left activations behind; the next cycle reads the same window again
	if len(activated) < s.config.BatchSize {
		s.activatedSince = startTime
	}

	if len(jobs) == 0 {
		logger.DebugCtx(ctx, "No stale floor asks")
		return nil
	}

	logger.InfoCtx(ctx, "Expiry sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("expired", len(expired)),
		zap.Int("activated", len(activated)),
	)

	return nil
}

func staleFloorAskJob(kind domain.FloorAskEventKind, stale domain.StaleFloorAsk) domain.FloorAskJob {
	return domain.FloorAskJob{
		Kind:     kind,
		Contract: stale.Contract,
		TokenID:  stale.TokenID,
	}
}

// enqueueWithRetry publishes the batch with a short exponential backoff.
// A partially published batch is sent again in full; the recompute is idempotent.
func (s *expirySweeper) enqueueWithRetry(ctx context.Context, jobs []domain.FloorAskJob) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = s.config.Interval

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Expiry enqueue failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	return backoff.RetryNotify(func() error {
		return s.queue.Enqueue(ctx, jobs)
	}, backoff.WithContext(b, ctx), notifyOnError)
}

// sleep waits for the duration unless interrupted by context cancellation or a stop signal
func (s *expirySweeper) sleep(ctx context.Context, duration time.Duration) {
	select {
	case <-s.clock.After(duration):
	case <-ctx.Done():
	case <-s.stopChan:
	}
}
