package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-floor-indexer/internal/api/shared/constants"
)

// ListFailedJobsQueryParams holds query parameters for GET /jobs/failed
type ListFailedJobsQueryParams struct {
	Limit int `form:"limit"`
}

// ParseListFailedJobsQuery parses and validates query parameters for GET /jobs/failed
func ParseListFailedJobsQuery(c *gin.Context) (*ListFailedJobsQueryParams, error) {
	var params ListFailedJobsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit == 0 {
		params.Limit = constants.DEFAULT_FAILED_JOBS_LIMIT
	}
	if params.Limit < 0 || params.Limit > constants.MAX_FAILED_JOBS_LIMIT {
		return nil, fmt.Errorf("limit must be between 1 and %d", constants.MAX_FAILED_JOBS_LIMIT)
	}

	return &params, nil
}
