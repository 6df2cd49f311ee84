package messages

import "time"

const (
	// Default lane carries all current pipeline work
	Default string = "Work"
	// HighPriority lane is declared for urgent jobs, unused by the pipeline yet
	HighPriority string = "WorkHigh"
)

// Lanes lists every queue a worker pool drains
func Lanes() []string {
	return []string{Default, HighPriority}
}

// JobOpts carries enqueue options. Retention values are advisory -
// persisted task rows are the source of truth for resumability,
// not the broker's bookkeeping.
type JobOpts struct {
	Timeout          time.Duration
	ResultRetention  time.Duration
	FailureRetention time.Duration
}

// DefaultJobOpts returns options used by the pipeline stages
func DefaultJobOpts() *JobOpts {
	return &JobOpts{Timeout: 2 * time.Hour, ResultRetention: 24 * time.Hour, FailureRetention: 24 * time.Hour}
}
