package persistence

import (
	"time"

	"github.com/example/effort-scheduler/internal/effort"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task awaits scheduling or rescheduling.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusScheduled indicates the scheduler has fully placed the task.
	TaskStatusScheduled TaskStatus = "scheduled"
	// TaskStatusCompleted indicates the task was finished; set externally.
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority enumerates task urgency levels. Rank ascends with urgency: HIGH
// sorts before NORMAL before LOW before LOWEST.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
	PriorityLowest Priority = "lowest"
)

// Rank returns the sort rank for the priority. Unknown values rank after
// every defined priority.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	case PriorityLowest:
		return 4
	default:
		return 5
	}
}

// SegmentStatus enumerates the states of a single day's allocation,
// independent of the parent task's status.
type SegmentStatus string

const (
	SegmentStatusPlanned SegmentStatus = "planned"
	SegmentStatusDone    SegmentStatus = "done"
)

// Segment allocates a portion of a task's effort to one calendar day.
// Segments are created and replaced wholesale by the scheduler.
type Segment struct {
	ID           string
	TaskID       string
	EffortPoints int
	Date         time.Time
	Status       SegmentStatus
}

// Task is the unit of work being scheduled. All date fields are day
// granular; nil means unset.
type Task struct {
	ID                 string
	UserID             string
	Title              string
	EffortSize         effort.Size
	Priority           Priority
	Status             TaskStatus
	DueDate            *time.Time
	TargetDate         *time.Time
	ScheduledStartDate *time.Time
	CompletedDate      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	IsArchived         bool
	Segments           []Segment
}

// EffortPoints returns the numeric effort of the task.
func (t Task) EffortPoints() int {
	return effort.Points(t.EffortSize)
}

// TaskFilter narrows task queries. Nil fields are ignored. The completed
// date range is half open: CompletedAfter is inclusive, CompletedBefore is
// exclusive.
type TaskFilter struct {
	UserID          string
	IsArchived      *bool
	Status          *TaskStatus
	CompletedAfter  *time.Time
	CompletedBefore *time.Time
	ScheduledOn     *time.Time
}

// TaskUpdate carries a partial update. Nil fields are left untouched;
// Segments, when set, replaces the existing segment list wholesale.
type TaskUpdate struct {
	Segments           *[]Segment
	Status             *TaskStatus
	ScheduledStartDate *time.Time
	DueDate            *time.Time
}
