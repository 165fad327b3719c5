package domain

import "errors"

var (
	// ErrInvalidJob is returned when a job payload fails validation at the queue boundary
	ErrInvalidJob = errors.New("invalid floor ask job")

	// ErrUnknownEventKind is returned when a job carries a kind outside the known set
	ErrUnknownEventKind = errors.New("unknown floor ask event kind")

	// ErrCollectionNotFound is returned when a token references a collection row that does not exist
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrAttemptsExhausted is returned when a job is delivered again after its attempts ran out
	// without settling, for example because the worker died or the job timed out
	ErrAttemptsExhausted = errors.New("floor ask job attempts exhausted")

	// ErrFailedJobNotFound is returned when a failed job sequence is not in the failed set
	ErrFailedJobNotFound = errors.New("failed job not found")
)
