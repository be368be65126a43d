package persistence

import (
	"context"
	"time"
)

// TaskStore exposes the persistence operations consumed by the scheduling
// engine. Implementations must scope every query by the filter's user.
type TaskStore interface {
	CreateTask(ctx context.Context, task Task) (Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (Task, error)
	DeleteTask(ctx context.Context, id string) error

	// GetTasksContributingToEffortOnDate returns the user's tasks, with
	// segments, that may carry committed effort on the given day: tasks
	// with a segment dated that day, or unsegmented tasks whose scheduled
	// start date falls on it.
	GetTasksContributingToEffortOnDate(ctx context.Context, date time.Time, userID string) ([]Task, error)

	// ListUserIDs enumerates users that own at least one non-archived
	// pending task.
	ListUserIDs(ctx context.Context) ([]string, error)
}
