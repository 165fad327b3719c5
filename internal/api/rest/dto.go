package rest

import (
	"fmt"

	"github.com/feral-file/ff-floor-indexer/internal/api/shared/constants"
	"github.com/feral-file/ff-floor-indexer/internal/domain"
)

// EnqueueJobsRequest is the body of POST /api/v1/jobs
type EnqueueJobsRequest struct {
	Jobs []domain.FloorAskJobPayload `json:"jobs"`
}

// Validate parses every payload. The batch is rejected as a whole if any payload is invalid.
func (r *EnqueueJobsRequest) Validate() ([]domain.FloorAskJob, error) {
	if len(r.Jobs) == 0 {
		return nil, fmt.Errorf("jobs is required")
	}
	if len(r.Jobs) > constants.MAX_JOBS_PER_REQUEST {
		return nil, fmt.Errorf("maximum %d jobs allowed", constants.MAX_JOBS_PER_REQUEST)
	}

	jobs := make([]domain.FloorAskJob, 0, len(r.Jobs))
	for i, payload := range r.Jobs {
		job, err := payload.Parse()
		if err != nil {
			return nil, fmt.Errorf("jobs[%d]: %w", i, err)
		}
		jobs = append(jobs, *job)
	}

	return jobs, nil
}

// EnqueueJobsResponse lists the names of the accepted jobs
type EnqueueJobsResponse struct {
	Enqueued int      `json:"enqueued"`
	Names    []string `json:"names"`
}

// FailedJobsResponse lists parked jobs, newest first
type FailedJobsResponse struct {
	Jobs []domain.FailedJob `json:"jobs"`
}

// RetryFailedJobResponse describes a parked job that was sent back to the work stream
type RetryFailedJobResponse struct {
	Job domain.FailedJob `json:"job"`
}
