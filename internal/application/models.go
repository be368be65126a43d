package application

import (
	"time"

	"github.com/example/effort-scheduler/internal/persistence"
)

// RunSummary reports the outcome of one scheduling run for a user.
type RunSummary struct {
	UserID    string
	Capacity  int
	Scheduled int
	Partial   int
	Deferred  int
	Skipped   int
}

// Processed returns the number of backlog tasks the run attempted to place.
func (s RunSummary) Processed() int {
	return s.Scheduled + s.Partial + s.Deferred
}

// segmentPlan is the outcome of spreading an oversized task across its
// timeframe. A nil plan means no day accepted any effort at all.
type segmentPlan struct {
	segments         []persistence.Segment
	status           persistence.TaskStatus
	effectiveDueDate *time.Time
}
