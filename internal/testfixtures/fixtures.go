package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/effort-scheduler/internal/effort"
	"github.com/example/effort-scheduler/internal/persistence"
)

var (
	taskCounter    uint64
	segmentCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDay returns ReferenceTime truncated to its UTC calendar day.
func ReferenceDay() time.Time {
	return time.Date(referenceTime.Year(), referenceTime.Month(), referenceTime.Day(), 0, 0, 0, 0, time.UTC)
}

// TaskOption configures the generated task fixture.
type TaskOption func(*persistence.Task)

// NewTaskFixture returns a deterministic pending task with optional
// overrides.
func NewTaskFixture(opts ...TaskOption) persistence.Task {
	idx := atomic.AddUint64(&taskCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	task := persistence.Task{
		ID:         fmt.Sprintf("task-%03d", idx),
		UserID:     "user-001",
		Title:      fmt.Sprintf("Task %03d", idx),
		EffortSize: effort.SizeM,
		Priority:   persistence.PriorityNormal,
		Status:     persistence.TaskStatusPending,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

// WithTaskID overrides the generated task ID.
func WithTaskID(id string) TaskOption {
	return func(t *persistence.Task) {
		t.ID = id
	}
}

// WithUserID overrides the owning user.
func WithUserID(userID string) TaskOption {
	return func(t *persistence.Task) {
		t.UserID = userID
	}
}

// WithEffortSize overrides the effort estimate.
func WithEffortSize(size effort.Size) TaskOption {
	return func(t *persistence.Task) {
		t.EffortSize = size
	}
}

// WithPriority overrides the priority.
func WithPriority(priority persistence.Priority) TaskOption {
	return func(t *persistence.Task) {
		t.Priority = priority
	}
}

// WithStatus overrides the task status.
func WithStatus(status persistence.TaskStatus) TaskOption {
	return func(t *persistence.Task) {
		t.Status = status
	}
}

// WithDueDate sets the hard deadline.
func WithDueDate(due time.Time) TaskOption {
	return func(t *persistence.Task) {
		t.DueDate = &due
	}
}

// WithTargetDate sets the soft internal deadline.
func WithTargetDate(target time.Time) TaskOption {
	return func(t *persistence.Task) {
		t.TargetDate = &target
	}
}

// WithScheduledStartDate sets the scheduling anchor date.
func WithScheduledStartDate(start time.Time) TaskOption {
	return func(t *persistence.Task) {
		t.ScheduledStartDate = &start
	}
}

// WithCompletedDate marks the task completed on the given day.
func WithCompletedDate(completed time.Time) TaskOption {
	return func(t *persistence.Task) {
		t.CompletedDate = &completed
		t.Status = persistence.TaskStatusCompleted
	}
}

// WithCreatedAt overrides the creation timestamp.
func WithCreatedAt(created time.Time) TaskOption {
	return func(t *persistence.Task) {
		t.CreatedAt = created
		t.UpdatedAt = created
	}
}

// WithArchived marks the task archived.
func WithArchived() TaskOption {
	return func(t *persistence.Task) {
		t.IsArchived = true
	}
}

// WithSegments attaches pre-existing segments.
func WithSegments(segments ...persistence.Segment) TaskOption {
	return func(t *persistence.Task) {
		t.Segments = segments
	}
}

// NewSegmentFixture returns a deterministic segment bound to the given task.
func NewSegmentFixture(taskID string, points int, date time.Time) persistence.Segment {
	idx := atomic.AddUint64(&segmentCounter, 1)
	return persistence.Segment{
		ID:           fmt.Sprintf("segment-%03d", idx),
		TaskID:       taskID,
		EffortPoints: points,
		Date:         date,
		Status:       persistence.SegmentStatusPlanned,
	}
}
