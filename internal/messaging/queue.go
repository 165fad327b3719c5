package messaging

import (
	"context"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
)

// JobHandler processes a single floor ask job. A returned error fails the delivery
// and hands it back to the queue's retry policy.
//
//go:generate mockgen -source=queue.go -destination=../mocks/queue.go -package=mocks -mock_names=JobHandler=MockJobHandler
type JobHandler interface {
	Handle(ctx context.Context, job *domain.FloorAskJob) error
}

// JobQueue defines the interface for enqueueing floor ask jobs
//
//go:generate mockgen -source=queue.go -destination=../mocks/queue.go -package=mocks -mock_names=JobQueue=MockJobQueue
type JobQueue interface {
	// Enqueue publishes a batch of jobs. Each job is named contract-tokenId.
	Enqueue(ctx context.Context, jobs []domain.FloorAskJob) error
}

// JobConsumer defines the interface for consuming floor ask jobs
//
//go:generate mockgen -source=queue.go -destination=../mocks/queue.go -package=mocks -mock_names=JobConsumer=MockJobConsumer
type JobConsumer interface {
	// Consume dispatches jobs to the handler until ctx is cancelled
	Consume(ctx context.Context, handler JobHandler) error
}

// FailedJobs defines the interface for inspecting jobs that exhausted their retries
//
//go:generate mockgen -source=queue.go -destination=../mocks/queue.go -package=mocks -mock_names=FailedJobs=MockFailedJobs
type FailedJobs interface {
	// ListFailed returns up to limit parked jobs, newest first
	ListFailed(ctx context.Context, limit int) ([]domain.FailedJob, error)
	// RetryFailed re-enqueues a parked job and removes it from the failed set
	RetryFailed(ctx context.Context, sequence uint64) (*domain.FailedJob, error)
}
