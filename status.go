package concurqueue

// TaskStatus is the lifecycle state of a task as recorded in the
// Tracker.
//
// Valid paths:
//
//	Submitted → Processing → Completed
//	Submitted → Processing → Failed → Retried → Processing → …
//	Submitted → Processing → Failed            (terminal, retries exhausted)
//
// Completed and retries-exhausted Failed are terminal.
type TaskStatus int

const (
	StatusSubmitted TaskStatus = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
	StatusRetried
)

func (s TaskStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "SUBMITTED"
	case StatusProcessing:
		return "PROCESSING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusFailed:
		return "FAILED"
	case StatusRetried:
		return "RETRIED"
	default:
		return "UNKNOWN"
	}
}

// Statuses returns every status in declaration order. Report
// histograms iterate this so that zero counts still appear.
func Statuses() []TaskStatus {
	return []TaskStatus{
		StatusSubmitted,
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
		StatusRetried,
	}
}
