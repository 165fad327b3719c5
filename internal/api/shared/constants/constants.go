package constants

const (
	MAX_JOBS_PER_REQUEST      = 1000
	DEFAULT_FAILED_JOBS_LIMIT = 100
	MAX_FAILED_JOBS_LIMIT     = 1000
)
