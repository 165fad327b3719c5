package domain

import "time"

const (
	// Job queue defaults
	DEFAULT_WORKER_CONCURRENCY = 5
	DEFAULT_JOB_MAX_ATTEMPTS   = 10
	DEFAULT_JOB_BACKOFF        = 20 * time.Second
	DEFAULT_JOB_TIMEOUT        = 60 * time.Second
	DEFAULT_FAILED_SET_SIZE    = 10_000
	DEFAULT_COMPLETED_SET_SIZE = 1_000

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"
)
