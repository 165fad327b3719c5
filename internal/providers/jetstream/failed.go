package jetstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
)

const defaultFailedListLimit = 100

// park appends a job to the bounded failed set
func (q *Queue) park(ctx context.Context, record domain.FailedJob) error {
	data, err := q.json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failed job: %w", err)
	}

	msg := nats.NewMsg(q.cfg.failedSubject())
	msg.Data = data
	msg.Header.Set(HeaderJobName, record.Name)

	if _, err := q.js.PublishMsg(ctx, msg, jetstream.WithExpectStream(q.cfg.FailedStreamName)); err != nil {
		return fmt.Errorf("failed to publish failed job: %w", err)
	}

	return nil
}

// recordCompleted appends a job to the bounded completed set
func (q *Queue) recordCompleted(ctx context.Context, record domain.CompletedJob) error {
	data, err := q.json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal completed job: %w", err)
	}

	msg := nats.NewMsg(q.cfg.completedSubject())
	msg.Data = data
	msg.Header.Set(HeaderJobName, record.Name)

	if _, err := q.js.PublishMsg(ctx, msg, jetstream.WithExpectStream(q.cfg.CompletedStreamName)); err != nil {
		return fmt.Errorf("failed to publish completed job: %w", err)
	}

	return nil
}

// ListFailed returns up to limit parked jobs, newest first
func (q *Queue) ListFailed(ctx context.Context, limit int) ([]domain.FailedJob, error) {
	if limit <= 0 {
		limit = defaultFailedListLimit
	}

	stream, err := q.js.Stream(ctx, q.cfg.FailedStreamName)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed stream: %w", err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed stream info: %w", err)
	}

	jobs := make([]domain.FailedJob, 0, min(limit, int(info.State.Msgs))) //nolint:gosec,G115
	for seq := info.State.LastSeq; seq != 0 && seq >= info.State.FirstSeq && len(jobs) < limit; seq-- {
		job, err := q.getFailed(ctx, stream, seq)
		if err != nil {
			if errors.Is(err, domain.ErrFailedJobNotFound) {
				// Removed by a retry or evicted
				continue
			}
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, nil
}

// RetryFailed re-enqueues a parked job and removes it from the failed set
func (q *Queue) RetryFailed(ctx context.Context, sequence uint64) (*domain.FailedJob, error) {
	stream, err := q.js.Stream(ctx, q.cfg.FailedStreamName)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed stream: %w", err)
	}

	record, err := q.getFailed(ctx, stream, sequence)
	if err != nil {
		return nil, err
	}

	job, err := record.Payload.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed job %d cannot be retried: %w", sequence, err)
	}

	if err := q.Enqueue(ctx, []domain.FloorAskJob{*job}); err != nil {
		return nil, err
	}

	if err := stream.DeleteMsg(ctx, sequence); err != nil {
		// The job is already back in the work stream; a leftover entry is only noise
		logger.WarnCtx(ctx, "Failed to remove retried job from failed set",
			zap.Uint64("sequence", sequence),
			zap.Error(err))
	}

	return record, nil
}

type failedStream interface {
	GetMsg(ctx context.Context, seq uint64, opts ...jetstream.GetMsgOpt) (*jetstream.RawStreamMsg, error)
}

func (q *Queue) getFailed(ctx context.Context, stream failedStream, sequence uint64) (*domain.FailedJob, error) {
	raw, err := stream.GetMsg(ctx, sequence)
	if err != nil {
		if errors.Is(err, jetstream.ErrMsgNotFound) {
			return nil, fmt.Errorf("%w: sequence %d", domain.ErrFailedJobNotFound, sequence)
		}
		return nil, fmt.Errorf("failed to get failed job %d: %w", sequence, err)
	}

	var record domain.FailedJob
	if err := q.json.Unmarshal(raw.Data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failed job %d: %w", sequence, err)
	}
	record.Sequence = raw.Sequence

	return &record, nil
}
