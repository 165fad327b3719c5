package floorask

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/messaging"
	"github.com/feral-file/ff-floor-indexer/internal/registry"
	"github.com/feral-file/ff-floor-indexer/internal/store"
)

// ErrFloorAskConflict is returned when the stored aggregate kept changing underneath the worker
var ErrFloorAskConflict = errors.New("floor ask changed concurrently")

const (
	DEFAULT_MAX_CONFLICT_RETRIES = 5
	DEFAULT_CONFLICT_BACKOFF     = 50 * time.Millisecond
)

// Config holds worker configuration
type Config struct {
	// MaxConflictRetries bounds the in-process retries after a lost conditional write
	MaxConflictRetries int
	// ConflictBackoff is the first delay between those retries
	ConflictBackoff time.Duration
	// Blocklist, when set, keeps orders on tokens of the listed contracts out of every aggregate
	Blocklist registry.Blocklist
}

// Result describes the outcome of a recompute
type Result struct {
	CollectionID string
	// Transitions counts the aggregate writes applied by this recompute
	Transitions int
	// FloorAsk is the aggregate the collection converged to
	FloorAsk domain.FloorAsk
}

//go:generate mockgen -source=worker.go -destination=../mocks/floorask.go -package=mocks -mock_names=Worker=MockFloorAskWorker

// Worker recomputes the normalized floor ask of collections
type Worker interface {
	messaging.JobHandler
	// Recompute brings the stored aggregate of a collection in line with durable state
	Recompute(ctx context.Context, collectionID string, trigger domain.FloorAskTrigger) (*Result, error)
}

type worker struct {
	store    store.Store
	clock    adapter.Clock
	cfg      Config
	excluded []common.Address
}

// NewWorker creates a new floor ask worker
func NewWorker(st store.Store, clock adapter.Clock, cfg Config) Worker {
	if cfg.MaxConflictRetries <= 0 {
		cfg.MaxConflictRetries = DEFAULT_MAX_CONFLICT_RETRIES
	}
	if cfg.ConflictBackoff <= 0 {
		cfg.ConflictBackoff = DEFAULT_CONFLICT_BACKOFF
	}

	w := &worker{
		store: st,
		clock: clock,
		cfg:   cfg,
	}
	if cfg.Blocklist != nil {
		w.excluded = cfg.Blocklist.Contracts()
	}

	return w
}

// Handle resolves the token's collection and recomputes its aggregate.
// Tokens that are unknown or not classified into a collection are skipped.
// A blocklisted trigger still recomputes its collection so a stale floor on its order is cleared.
func (w *worker) Handle(ctx context.Context, job *domain.FloorAskJob) error {
	if w.cfg.Blocklist != nil && w.cfg.Blocklist.IsBlocked(job.Contract) {
		logger.DebugCtx(ctx, "Trigger contract is blocklisted, recomputing without its orders",
			zap.String("job_name", job.Name()))
	}

	collectionID, err := w.store.GetTokenCollectionID(ctx, job.Contract, job.TokenID)
	if err != nil {
		return fmt.Errorf("failed to resolve collection of %s: %w", job.Name(), err)
	}

	if collectionID == nil {
		logger.DebugCtx(ctx, "Token has no collection, skipping floor ask recompute",
			zap.String("job_name", job.Name()),
			zap.String("kind", string(job.Kind)))
		return nil
	}

	_, err = w.Recompute(ctx, *collectionID, job.Trigger())
	return err
}

// Recompute runs observe, compute, compare and conditional write until a comparison finds
// nothing to change. Lost writes are retried with a short backoff.
func (w *worker) Recompute(ctx context.Context, collectionID string, trigger domain.FloorAskTrigger) (*Result, error) {
	result := &Result{CollectionID: collectionID}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.cfg.ConflictBackoff
	b.MaxInterval = 20 * w.cfg.ConflictBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(w.cfg.MaxConflictRetries)), ctx) //nolint:gosec,G115

	operation := func() error {
		converged, err := w.reconcile(ctx, collectionID, trigger, result)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !converged {
			return ErrFloorAskConflict
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.WarnCtx(ctx, "Floor ask write lost to a concurrent update, retrying",
			zap.String("collection_id", collectionID),
			zap.Duration("next_retry_in", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to recompute floor ask of collection %s: %w", collectionID, err)
	}

	if result.Transitions > 0 {
		logger.InfoCtx(ctx, "Collection floor ask updated",
			zap.String("collection_id", collectionID),
			zap.String("kind", string(trigger.Kind)),
			zap.Int("transitions", result.Transitions),
			zap.Stringp("order_id", result.FloorAsk.OrderID),
			zap.Stringer("value", result.FloorAsk.Value.Decimal))
	}

	return result, nil
}

// reconcile reports whether the stored aggregate matches the computed one.
// After an applied write it verifies again, since a concurrent worker may have
// skipped its own write while ours was in flight.
func (w *worker) reconcile(ctx context.Context, collectionID string, trigger domain.FloorAskTrigger, result *Result) (bool, error) {
	for pass := 0; pass <= w.cfg.MaxConflictRetries; pass++ {
		observed, err := w.store.GetCollectionFloorAsk(ctx, collectionID)
		if err != nil {
			return false, err
		}
		if observed == nil {
			return false, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collectionID)
		}

		now := w.clock.Now()
		candidate, err := w.store.ComputeFloorAsk(ctx, collectionID, now, w.excluded)
		if err != nil {
			return false, err
		}

		if !observed.FloorAsk.Differs(*candidate) {
			result.FloorAsk = *candidate
			return true, nil
		}

		applied, err := w.store.WriteFloorAskIfDiffers(ctx, store.WriteFloorAskInput{
			Observed:  *observed,
			Candidate: *candidate,
			Trigger:   trigger,
			Now:       now,
		})
		if err != nil {
			return false, err
		}
		if !applied {
			return false, nil
		}

		result.Transitions++
	}

	return false, nil
}
