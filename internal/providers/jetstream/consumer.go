package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/messaging"
)

// iteratorErrorPause throttles a worker whose pull iterator keeps failing
const iteratorErrorPause = time.Second

// Consume creates the durable pull consumer and runs cfg.Concurrency workers until ctx is cancelled.
// Each worker pulls one message at a time and processes it to completion before pulling the next.
func (q *Queue) Consume(ctx context.Context, handler messaging.JobHandler) error {
	consumer, err := q.js.CreateOrUpdateConsumer(ctx, q.cfg.StreamName, jetstream.ConsumerConfig{
		Durable:       q.cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       q.cfg.JobTimeout,
		MaxDeliver:    -1,
		FilterSubject: q.cfg.Subject,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	logger.InfoCtx(ctx, "Floor ask consumer started",
		zap.String("stream", q.cfg.StreamName),
		zap.String("consumer", q.cfg.ConsumerName),
		zap.Int("workers", q.cfg.Concurrency),
		zap.Int("max_attempts", q.cfg.MaxAttempts),
		zap.Duration("job_timeout", q.cfg.JobTimeout))

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := pond.NewPool(q.cfg.Concurrency)
	group := pool.NewGroup()
	for i := 0; i < q.cfg.Concurrency; i++ {
		workerID := i
		group.SubmitErr(func() error {
			return q.runWorker(workerCtx, consumer, handler, workerID)
		})
	}

	err = group.Wait()
	if err != nil {
		// Bring the remaining workers down with the failed one
		cancel()
	}
	pool.StopAndWait()

	logger.InfoCtx(ctx, "Floor ask consumer stopped",
		zap.Uint64("completed_workers", pool.CompletedTasks()),
		zap.Uint64("failed_workers", pool.FailedTasks()))

	return err
}

// runWorker pulls and processes messages one at a time until the iterator is closed
func (q *Queue) runWorker(ctx context.Context, consumer adapter.Consumer, handler messaging.JobHandler, workerID int) error {
	iter, err := consumer.Messages(jetstream.PullMaxMessages(1))
	if err != nil {
		return fmt.Errorf("worker %d failed to start message iterator: %w", workerID, err)
	}
	defer iter.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			iter.Stop()
		case <-done:
		}
	}()

	for {
		msg, err := iter.Next()
		if err != nil {
			if errors.Is(err, jetstream.ErrMsgIteratorClosed) || ctx.Err() != nil {
				return nil
			}

			logger.WarnCtx(ctx, "Failed to pull floor ask job",
				zap.Int("worker", workerID),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return nil
			case <-q.clock.After(iteratorErrorPause):
			}
			continue
		}

		q.process(ctx, msg, handler, workerID)
	}
}

// process runs the handler for one delivery and settles the message.
// Handler failures are NAKed with exponential delay until the attempt limit, then parked.
// A delivery past the limit is parked without running the handler.
func (q *Queue) process(ctx context.Context, msg adapter.Message, handler messaging.JobHandler, workerID int) {
	name := msg.Headers().Get(HeaderJobName)
	fields := []zap.Field{
		zap.Int("worker", workerID),
		zap.String("execution_id", uuid.NewString()),
		zap.String("job_name", name),
	}

	meta, err := msg.Metadata()
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to read message metadata: %w", err), fields...)
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to term message: %w", err), fields...)
		}
		return
	}
	attempt := meta.NumDelivered
	fields = append(fields, zap.Uint64("attempt", attempt), zap.Uint64("stream_sequence", meta.Sequence.Stream))

	var payload domain.FloorAskJobPayload
	if err := q.json.Unmarshal(msg.Data(), &payload); err != nil {
		q.reject(ctx, msg, domain.FailedJob{
			Name:       name,
			RawPayload: string(msg.Data()),
			Attempts:   attempt,
		}, fmt.Errorf("%w: %w", domain.ErrInvalidJob, err), fields)
		return
	}
	fields = append(fields, zap.Any("payload", payload))

	job, err := payload.Parse()
	if err != nil {
		q.reject(ctx, msg, domain.FailedJob{
			Name:     name,
			Payload:  payload,
			Attempts: attempt,
		}, err, fields)
		return
	}

	// Earlier deliveries that never settled still count as attempts
	if attempt > uint64(q.cfg.MaxAttempts) { //nolint:gosec,G115
		q.reject(ctx, msg, domain.FailedJob{
			Name:     job.Name(),
			Payload:  payload,
			Attempts: attempt - 1,
		}, fmt.Errorf("%w after %d deliveries", domain.ErrAttemptsExhausted, attempt-1), fields)
		return
	}

	// The job outlives worker shutdown so an in-flight recompute finishes cleanly
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.cfg.JobTimeout)
	startedAt := q.clock.Now()
	err = handler.Handle(jobCtx, job)
	cancel()

	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to process floor ask job: %w", err), fields...)
		q.fail(ctx, msg, domain.FailedJob{
			Name:     job.Name(),
			Payload:  payload,
			Attempts: attempt,
		}, err, fields)
		return
	}

	if err := q.recordCompleted(ctx, domain.CompletedJob{
		Name:        job.Name(),
		Payload:     payload,
		Attempts:    attempt,
		CompletedAt: q.clock.Now(),
	}); err != nil {
		logger.WarnCtx(ctx, "Failed to record completed floor ask job", append(fields, zap.Error(err))...)
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to ack message: %w", err), fields...)
		return
	}

	logger.DebugCtx(ctx, "Floor ask job completed",
		append(fields, zap.Duration("duration", q.clock.Since(startedAt)))...)
}

// fail schedules a redelivery or parks the job once the attempt limit is reached
func (q *Queue) fail(ctx context.Context, msg adapter.Message, record domain.FailedJob, cause error, fields []zap.Field) {
	if record.Attempts < uint64(q.cfg.MaxAttempts) { //nolint:gosec,G115
		delay := RetryDelay(q.cfg.InitialBackoff, record.Attempts)
		if err := msg.NakWithDelay(delay); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to nak message: %w", err), fields...)
			return
		}
		logger.WarnCtx(ctx, "Floor ask job scheduled for retry", append(fields, zap.Duration("delay", delay))...)
		return
	}

	q.reject(ctx, msg, record, cause, fields)
}

// reject parks the job in the failed set and terminates the delivery.
// If parking fails the delivery is NAKed so the job is not lost.
func (q *Queue) reject(ctx context.Context, msg adapter.Message, record domain.FailedJob, cause error, fields []zap.Field) {
	record.Error = cause.Error()
	record.FailedAt = q.clock.Now()

	if err := q.park(ctx, record); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to park floor ask job: %w", err), fields...)
		if err := msg.NakWithDelay(RetryDelay(q.cfg.InitialBackoff, 1)); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to nak message: %w", err), fields...)
		}
		return
	}

	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to term message: %w", err), fields...)
		return
	}

	logger.ErrorCtx(ctx, fmt.Errorf("floor ask job parked: %w", cause), fields...)
}
