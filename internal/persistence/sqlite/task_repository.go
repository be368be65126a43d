package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/effort-scheduler/internal/effort"
	"github.com/example/effort-scheduler/internal/persistence"
)

const taskColumns = `id, user_id, title, effort_size, priority, status,
	due_date, target_date, scheduled_start_date, completed_date,
	created_at, updated_at, is_archived`

// CreateTask inserts a new task and its segments.
func (s *Storage) CreateTask(ctx context.Context, task persistence.Task) (persistence.Task, error) {
	if task.ID == "" {
		return persistence.Task{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO tasks (` + taskColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			task.ID,
			task.UserID,
			task.Title,
			string(task.EffortSize),
			string(task.Priority),
			string(task.Status),
			nullDay(task.DueDate),
			nullDay(task.TargetDate),
			nullDay(task.ScheduledStartDate),
			nullDay(task.CompletedDate),
			task.CreatedAt.Format(timestampLayout),
			task.UpdatedAt.Format(timestampLayout),
			boolToInt(task.IsArchived),
		)
		if err != nil {
			return mapError(err)
		}
		return insertSegments(ctx, tx, task.ID, task.Segments)
	})
	if err != nil {
		return persistence.Task{}, err
	}

	return s.GetTask(ctx, task.ID)
}

// GetTask retrieves a task with its segments.
func (s *Storage) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		return persistence.Task{}, mapError(err)
	}

	segments, err := s.loadSegments(ctx, []string{task.ID})
	if err != nil {
		return persistence.Task{}, err
	}
	task.Segments = segments[task.ID]
	return task, nil
}

// GetTasks lists tasks matching the filter, ordered by creation time.
func (s *Storage) GetTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.IsArchived != nil {
		conditions = append(conditions, "is_archived = ?")
		args = append(args, boolToInt(*filter.IsArchived))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.CompletedAfter != nil {
		conditions = append(conditions, "completed_date >= ?")
		args = append(args, filter.CompletedAfter.UTC().Format(dayLayout))
	}
	if filter.CompletedBefore != nil {
		conditions = append(conditions, "completed_date < ?")
		args = append(args, filter.CompletedBefore.UTC().Format(dayLayout))
	}
	if filter.ScheduledOn != nil {
		conditions = append(conditions, "scheduled_start_date = ?")
		args = append(args, filter.ScheduledOn.UTC().Format(dayLayout))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	return s.queryTasks(ctx, query, args...)
}

// UpdateTask applies a partial update. When the update carries a segment
// list, the stored segments are replaced wholesale inside the same
// transaction.
func (s *Storage) UpdateTask(ctx context.Context, id string, update persistence.TaskUpdate) (persistence.Task, error) {
	if id == "" {
		return persistence.Task{}, persistence.ErrConstraintViolation
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE id = ?`, id).Scan(&exists); err != nil {
			return mapError(err)
		}
		if exists == 0 {
			return persistence.ErrNotFound
		}

		assignments := make([]string, 0, 4)
		args := make([]any, 0, 5)

		if update.Status != nil {
			assignments = append(assignments, "status = ?")
			args = append(args, string(*update.Status))
		}
		if update.ScheduledStartDate != nil {
			assignments = append(assignments, "scheduled_start_date = ?")
			args = append(args, nullDay(update.ScheduledStartDate))
		}
		if update.DueDate != nil {
			assignments = append(assignments, "due_date = ?")
			args = append(args, nullDay(update.DueDate))
		}

		assignments = append(assignments, "updated_at = ?")
		args = append(args, time.Now().UTC().Format(timestampLayout))
		args = append(args, id)

		query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(assignments, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError(err)
		}

		if update.Segments != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE task_id = ?`, id); err != nil {
				return mapError(err)
			}
			if err := insertSegments(ctx, tx, id, *update.Segments); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return persistence.Task{}, err
	}

	return s.GetTask(ctx, id)
}

// DeleteTask removes a task; segments cascade.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetTasksContributingToEffortOnDate returns the user's non-archived tasks
// that may carry committed effort on the given day.
func (s *Storage) GetTasksContributingToEffortOnDate(ctx context.Context, date time.Time, userID string) ([]persistence.Task, error) {
	day := date.UTC().Format(dayLayout)
	query := `
		SELECT ` + taskColumns + ` FROM tasks t
		WHERE t.user_id = ?
		  AND t.is_archived = 0
		  AND (
			EXISTS (SELECT 1 FROM segments sg WHERE sg.task_id = t.id AND sg.date = ?)
			OR (
				t.scheduled_start_date = ?
				AND NOT EXISTS (SELECT 1 FROM segments sg WHERE sg.task_id = t.id)
			)
		  )
		ORDER BY t.created_at ASC, t.id ASC
	`
	return s.queryTasks(ctx, query, userID, day, day)
}

// ListUserIDs enumerates users owning at least one non-archived pending task.
func (s *Storage) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM tasks
		WHERE is_archived = 0 AND status = ?
		ORDER BY user_id ASC
	`, string(persistence.TaskStatusPending))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

func (s *Storage) queryTasks(ctx context.Context, query string, args ...any) ([]persistence.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	tasks := make([]persistence.Task, 0)
	ids := make([]string, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err)
		}
		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	segments, err := s.loadSegments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Segments = segments[tasks[i].ID]
	}
	return tasks, nil
}

// loadSegments fetches segments for the given task ids keyed by task.
func (s *Storage) loadSegments(ctx context.Context, taskIDs []string) (map[string][]persistence.Segment, error) {
	result := make(map[string][]persistence.Segment, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?, ", len(taskIDs))
	placeholders = strings.TrimSuffix(placeholders, ", ")
	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, task_id, effort_points, date, status FROM segments
		WHERE task_id IN (%s)
		ORDER BY date ASC, id ASC
	`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			segment persistence.Segment
			day     string
			status  string
		)
		if err := rows.Scan(&segment.ID, &segment.TaskID, &segment.EffortPoints, &day, &status); err != nil {
			return nil, mapError(err)
		}
		parsed, err := time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("sqlite: invalid segment date %q: %w", day, err)
		}
		segment.Date = parsed
		segment.Status = persistence.SegmentStatus(status)
		result[segment.TaskID] = append(result[segment.TaskID], segment)
	}
	return result, mapError(rows.Err())
}

func insertSegments(ctx context.Context, tx *sql.Tx, taskID string, segments []persistence.Segment) error {
	for _, segment := range segments {
		if segment.ID == "" {
			return persistence.ErrConstraintViolation
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO segments (id, task_id, effort_points, date, status)
			VALUES (?, ?, ?, ?, ?)
		`,
			segment.ID,
			taskID,
			segment.EffortPoints,
			segment.Date.UTC().Format(dayLayout),
			string(segment.Status),
		)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (persistence.Task, error) {
	var (
		task          persistence.Task
		effortSize    string
		priority      string
		status        string
		dueDate       sql.NullString
		targetDate    sql.NullString
		scheduledDate sql.NullString
		completedDate sql.NullString
		createdAt     string
		updatedAt     string
		isArchived    int
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&effortSize,
		&priority,
		&status,
		&dueDate,
		&targetDate,
		&scheduledDate,
		&completedDate,
		&createdAt,
		&updatedAt,
		&isArchived,
	)
	if err != nil {
		return persistence.Task{}, err
	}

	task.EffortSize = effort.Size(effortSize)
	task.Priority = persistence.Priority(priority)
	task.Status = persistence.TaskStatus(status)
	task.DueDate = parseDay(dueDate)
	task.TargetDate = parseDay(targetDate)
	task.ScheduledStartDate = parseDay(scheduledDate)
	task.CompletedDate = parseDay(completedDate)
	task.CreatedAt = parseTimestamp(createdAt)
	task.UpdatedAt = parseTimestamp(updatedAt)
	task.IsArchived = isArchived != 0
	return task, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
