package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a human-readable message.
var (
	// ErrInvalidHistogramWidth is returned when the histogram bucket width is not positive.
	// Sentence lengths are divided by this value to find their bucket.
	ErrInvalidHistogramWidth = errors.New("invalid histogram width: must be positive")

	// ErrInvalidBarSize is returned when the histogram bar size is not positive.
	ErrInvalidBarSize = errors.New("invalid histogram bar size: must be positive")

	// ErrInvalidJobs is returned when the number of statistics workers is not positive.
	ErrInvalidJobs = errors.New("invalid number of jobs: must be positive")

	// ErrInvalidBatchLines is returned when the batch size for parallel counting is not positive.
	ErrInvalidBatchLines = errors.New("invalid batch lines: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidRatio is returned when the length ratio limit is not positive.
	ErrInvalidRatio = errors.New("invalid ratio: must be positive")

	// ErrInvalidLengthRange is returned when the minimum sentence length is
	// negative or greater than the maximum.
	ErrInvalidLengthRange = errors.New("invalid length range: need 0 <= min_len <= max_len")

	// ErrInvalidNumGPUs is returned when a negative number of GPUs is requested.
	ErrInvalidNumGPUs = errors.New("invalid number of GPUs: must be non-negative")

	// ErrEmptyLabelExt is returned when a label extension is blank.
	ErrEmptyLabelExt = errors.New("invalid label extension: must not be empty")
)
