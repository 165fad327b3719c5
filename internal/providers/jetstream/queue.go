package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-floor-indexer/internal/adapter"
	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
)

const (
	// HeaderJobName carries the contract-tokenId name of a job
	HeaderJobName = "Floor-Ask-Job-Name"

	failedSubjectSuffix    = ".failed"
	completedSubjectSuffix = ".completed"
)

// Config holds the configuration for the NATS JetStream job queue
type Config struct {
	URL                 string
	StreamName          string
	Subject             string
	ConsumerName        string
	FailedStreamName    string
	CompletedStreamName string
	MaxReconnects       int
	ReconnectWait       time.Duration
	ConnectionName      string

	MaxAttempts      int
	InitialBackoff   time.Duration
	JobTimeout       time.Duration
	FailedSetSize    int64
	CompletedSetSize int64
	Concurrency      int
}

func (c *Config) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = domain.DEFAULT_JOB_MAX_ATTEMPTS
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = domain.DEFAULT_JOB_BACKOFF
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = domain.DEFAULT_JOB_TIMEOUT
	}
	if c.FailedSetSize <= 0 {
		c.FailedSetSize = domain.DEFAULT_FAILED_SET_SIZE
	}
	if c.CompletedSetSize <= 0 {
		c.CompletedSetSize = domain.DEFAULT_COMPLETED_SET_SIZE
	}
	if c.Concurrency <= 0 {
		c.Concurrency = domain.DEFAULT_WORKER_CONCURRENCY
	}
}

func (c *Config) failedSubject() string {
	return c.Subject + failedSubjectSuffix
}

func (c *Config) completedSubject() string {
	return c.Subject + completedSubjectSuffix
}

// Queue is the JetStream-backed floor ask job queue. The work stream feeds a durable
// pull consumer; the failed and completed streams are bounded sets of finished jobs.
type Queue struct {
	nc    adapter.NatsConn
	js    adapter.JetStream
	cfg   Config
	json  adapter.JSON
	clock adapter.Clock
}

// NewQueue connects to NATS and returns a job queue
func NewQueue(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON, clock adapter.Clock) (*Queue, error) {
	cfg.applyDefaults()

	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return newQueue(nc, js, cfg, jsonAdapter, clock), nil
}

func newQueue(nc adapter.NatsConn, js adapter.JetStream, cfg Config, jsonAdapter adapter.JSON, clock adapter.Clock) *Queue {
	cfg.applyDefaults()
	return &Queue{
		nc:    nc,
		js:    js,
		cfg:   cfg,
		json:  jsonAdapter,
		clock: clock,
	}
}

// EnsureStreams creates or updates the work, failed and completed streams
func (q *Queue) EnsureStreams(ctx context.Context) error {
	streams := []jetstream.StreamConfig{
		{
			Name:      q.cfg.StreamName,
			Subjects:  []string{q.cfg.Subject},
			Retention: jetstream.WorkQueuePolicy,
			Storage:   jetstream.FileStorage,
		},
		{
			Name:      q.cfg.FailedStreamName,
			Subjects:  []string{q.cfg.failedSubject()},
			Retention: jetstream.LimitsPolicy,
			Storage:   jetstream.FileStorage,
			MaxMsgs:   q.cfg.FailedSetSize,
			Discard:   jetstream.DiscardOld,
		},
		{
			Name:      q.cfg.CompletedStreamName,
			Subjects:  []string{q.cfg.completedSubject()},
			Retention: jetstream.LimitsPolicy,
			Storage:   jetstream.FileStorage,
			MaxMsgs:   q.cfg.CompletedSetSize,
			Discard:   jetstream.DiscardOld,
		},
	}

	for _, stream := range streams {
		if _, err := q.js.CreateOrUpdateStream(ctx, stream); err != nil {
			return fmt.Errorf("failed to create or update stream %s: %w", stream.Name, err)
		}
	}

	return nil
}

// Enqueue publishes a batch of jobs to the work stream.
// Jobs carry no message id: a repeated name is a new delivery, never a server-side duplicate.
func (q *Queue) Enqueue(ctx context.Context, jobs []domain.FloorAskJob) error {
	for i := range jobs {
		job := &jobs[i]

		data, err := q.json.Marshal(job.Payload())
		if err != nil {
			return fmt.Errorf("failed to marshal job %s: %w", job.Name(), err)
		}

		msg := nats.NewMsg(q.cfg.Subject)
		msg.Data = data
		msg.Header.Set(HeaderJobName, job.Name())

		ack, err := q.js.PublishMsg(ctx, msg, jetstream.WithExpectStream(q.cfg.StreamName))
		if err != nil {
			return fmt.Errorf("failed to publish job %s: %w", job.Name(), err)
		}

		logger.DebugCtx(ctx, "Enqueued floor ask job",
			zap.String("name", job.Name()),
			zap.String("kind", string(job.Kind)),
			zap.Uint64("sequence", ack.Sequence))
	}

	return nil
}

// Close closes the NATS connection
func (q *Queue) Close() {
	if q.nc == nil {
		return
	}

	q.nc.Close()
}
