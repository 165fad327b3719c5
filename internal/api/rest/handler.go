package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
	"github.com/feral-file/ff-floor-indexer/internal/messaging"
)

// Handler defines the REST API handlers of the admin API
type Handler interface {
	// EnqueueJobs validates and enqueues a batch of change notifications
	// POST /api/v1/jobs
	EnqueueJobs(c *gin.Context)

	// ListFailedJobs returns parked jobs, newest first
	// GET /api/v1/jobs/failed?limit=<limit>
	ListFailedJobs(c *gin.Context)

	// RetryFailedJob re-enqueues a parked job and removes it from the failed set
	// POST /api/v1/jobs/failed/:seq/retry
	RetryFailedJob(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	queue  messaging.JobQueue
	failed messaging.FailedJobs
}

// NewHandler creates a new REST API handler
func NewHandler(queue messaging.JobQueue, failed messaging.FailedJobs) Handler {
	return &handler{
		queue:  queue,
		failed: failed,
	}
}

func (h *handler) EnqueueJobs(c *gin.Context) {
	var req EnqueueJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	jobs, err := req.Validate()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.queue.Enqueue(c.Request.Context(), jobs); err != nil {
		respondQueueError(c, err, "Failed to enqueue jobs", zap.Int("count", len(jobs)))
		return
	}

	names := make([]string, 0, len(jobs))
	for i := range jobs {
		names = append(names, jobs[i].Name())
	}

	c.JSON(http.StatusAccepted, EnqueueJobsResponse{
		Enqueued: len(jobs),
		Names:    names,
	})
}

func (h *handler) ListFailedJobs(c *gin.Context) {
	params, err := ParseListFailedJobsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	jobs, err := h.failed.ListFailed(c.Request.Context(), params.Limit)
	if err != nil {
		respondQueueError(c, err, "Failed to list failed jobs")
		return
	}

	if jobs == nil {
		jobs = []domain.FailedJob{}
	}

	c.JSON(http.StatusOK, FailedJobsResponse{Jobs: jobs})
}

func (h *handler) RetryFailedJob(c *gin.Context) {
	seq, err := strconv.ParseUint(c.Param("seq"), 10, 64)
	if err != nil || seq == 0 {
		respondBadRequest(c, "Invalid sequence", fmt.Sprintf("%q is not a stream sequence", c.Param("seq")))
		return
	}

	job, err := h.failed.RetryFailed(c.Request.Context(), seq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFailedJobNotFound):
			respondNotFound(c, "Failed job not found")
		case errors.Is(err, domain.ErrInvalidJob):
			respondValidationError(c, err.Error())
		default:
			respondQueueError(c, err, "Failed to retry job", zap.Uint64("sequence", seq))
		}
		return
	}

	c.JSON(http.StatusAccepted, RetryFailedJobResponse{Job: *job})
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "floor-ask-api",
	})
}
