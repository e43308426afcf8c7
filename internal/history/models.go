package history

import "time"

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one pipeline invocation as recorded in the history database.
type Run struct {
	ID        int64
	RunID     string
	URL       string
	Platform  string
	VideoID   string
	Status    Status
	Outputs   []string
	ErrorText string
	CreatedAt time.Time
	UpdatedAt time.Time
}
