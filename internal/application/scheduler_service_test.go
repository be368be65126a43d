package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/effort-scheduler/internal/effort"
	"github.com/example/effort-scheduler/internal/persistence"
	"github.com/example/effort-scheduler/internal/scheduler"
)

var fixedNow = time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func today() time.Time { return scheduler.DayOf(fixedNow) }

func dayOffset(days int) time.Time { return today().AddDate(0, 0, days) }

type recordedUpdate struct {
	taskID string
	update persistence.TaskUpdate
}

// taskStoreStub is an in-memory TaskStore with configurable failures. It
// applies filters and partial updates the way a real store would so that
// sequential scheduling decisions observe earlier writes.
type taskStoreStub struct {
	tasks   map[string]persistence.Task
	order   []string
	updates []recordedUpdate

	getTasksErr error
	updateErr   error
	contribErr  error

	// updateErrAfter fails the update call once this many updates have
	// succeeded. Zero means never.
	updateErrAfter int

	// blockEveryDay, when positive, reports that much effort already
	// committed on every queried day.
	blockEveryDay int
}

func newTaskStoreStub(tasks ...persistence.Task) *taskStoreStub {
	stub := &taskStoreStub{tasks: make(map[string]persistence.Task)}
	for _, task := range tasks {
		stub.tasks[task.ID] = task
		stub.order = append(stub.order, task.ID)
	}
	return stub
}

func (s *taskStoreStub) CreateTask(ctx context.Context, task persistence.Task) (persistence.Task, error) {
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task, nil
}

func (s *taskStoreStub) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return persistence.Task{}, persistence.ErrNotFound
	}
	return task, nil
}

func (s *taskStoreStub) GetTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	if s.getTasksErr != nil {
		return nil, s.getTasksErr
	}

	var out []persistence.Task
	for _, id := range s.order {
		task := s.tasks[id]
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if filter.IsArchived != nil && task.IsArchived != *filter.IsArchived {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.CompletedAfter != nil {
			if task.CompletedDate == nil || task.CompletedDate.Before(*filter.CompletedAfter) {
				continue
			}
		}
		if filter.CompletedBefore != nil {
			if task.CompletedDate == nil || !task.CompletedDate.Before(*filter.CompletedBefore) {
				continue
			}
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *taskStoreStub) UpdateTask(ctx context.Context, id string, update persistence.TaskUpdate) (persistence.Task, error) {
	if s.updateErr != nil && (s.updateErrAfter == 0 || len(s.updates) >= s.updateErrAfter) {
		return persistence.Task{}, s.updateErr
	}

	task, ok := s.tasks[id]
	if !ok {
		return persistence.Task{}, persistence.ErrNotFound
	}

	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.ScheduledStartDate != nil {
		start := *update.ScheduledStartDate
		task.ScheduledStartDate = &start
	}
	if update.DueDate != nil {
		due := *update.DueDate
		task.DueDate = &due
	}
	if update.Segments != nil {
		task.Segments = append([]persistence.Segment(nil), (*update.Segments)...)
	}

	s.tasks[id] = task
	s.updates = append(s.updates, recordedUpdate{taskID: id, update: update})
	return task, nil
}

func (s *taskStoreStub) DeleteTask(ctx context.Context, id string) error {
	delete(s.tasks, id)
	return nil
}

func (s *taskStoreStub) GetTasksContributingToEffortOnDate(ctx context.Context, date time.Time, userID string) ([]persistence.Task, error) {
	if s.contribErr != nil {
		return nil, s.contribErr
	}

	if s.blockEveryDay > 0 {
		blocker := persistence.Task{
			ID:     "blocker",
			UserID: userID,
			Segments: []persistence.Segment{{
				ID:           "blocker-segment",
				TaskID:       "blocker",
				EffortPoints: s.blockEveryDay,
				Date:         scheduler.DayOf(date),
				Status:       persistence.SegmentStatusPlanned,
			}},
		}
		return []persistence.Task{blocker}, nil
	}

	var out []persistence.Task
	for _, id := range s.order {
		task := s.tasks[id]
		if task.UserID != userID || task.IsArchived {
			continue
		}
		if len(task.Segments) > 0 {
			for _, segment := range task.Segments {
				if scheduler.SameDay(segment.Date, date) {
					out = append(out, task)
					break
				}
			}
			continue
		}
		if task.ScheduledStartDate != nil && scheduler.SameDay(*task.ScheduledStartDate, date) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *taskStoreStub) ListUserIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, id := range s.order {
		task := s.tasks[id]
		if task.IsArchived || task.Status != persistence.TaskStatusPending {
			continue
		}
		if _, ok := seen[task.UserID]; ok {
			continue
		}
		seen[task.UserID] = struct{}{}
		ids = append(ids, task.UserID)
	}
	return ids, nil
}

func newService(store persistence.TaskStore) *SchedulerService {
	counter := 0
	idGen := func() string {
		counter++
		return fmt.Sprintf("segment-%d", counter)
	}
	return NewSchedulerService(store, idGen, fixedClock)
}

func pendingTask(id, userID string, size effort.Size) persistence.Task {
	return persistence.Task{
		ID:         id,
		UserID:     userID,
		Title:      "Task " + id,
		EffortSize: size,
		Priority:   persistence.PriorityNormal,
		Status:     persistence.TaskStatusPending,
		CreatedAt:  fixedNow.Add(-time.Hour),
	}
}

func completedTask(id, userID string, size effort.Size, completed time.Time) persistence.Task {
	task := pendingTask(id, userID, size)
	task.Status = persistence.TaskStatusCompleted
	task.CompletedDate = &completed
	return task
}

func TestEstimateDailyCapacity_DefaultWithoutHistory(t *testing.T) {
	t.Parallel()

	svc := newService(newTaskStoreStub())

	if got := svc.EstimateDailyCapacity(context.Background(), "user-1"); got != 8 {
		t.Fatalf("EstimateDailyCapacity = %d, want 8", got)
	}
}

func TestEstimateDailyCapacity_AveragesOverDistinctDays(t *testing.T) {
	t.Parallel()

	dayOne := dayOffset(-10)
	dayTwo := dayOffset(-5)
	store := newTaskStoreStub(
		completedTask("t1", "user-1", effort.SizeL, dayOne), // 8 EP
		completedTask("t2", "user-1", effort.SizeS, dayOne), // 2 EP
		completedTask("t3", "user-1", effort.SizeM, dayTwo), // 4 EP
	)
	svc := newService(store)

	// 14 EP over 2 distinct completion days averages to 7.
	if got := svc.EstimateDailyCapacity(context.Background(), "user-1"); got != 7 {
		t.Fatalf("EstimateDailyCapacity = %d, want 7", got)
	}
}

func TestEstimateDailyCapacity_ExcludesHistoryOutsideWindow(t *testing.T) {
	t.Parallel()

	store := newTaskStoreStub(
		completedTask("old", "user-1", effort.SizeXXL, dayOffset(-120)),
		completedTask("today", "user-1", effort.SizeXXL, today()),
	)
	svc := newService(store)

	// Both completions fall outside the half-open window, so the default
	// applies.
	if got := svc.EstimateDailyCapacity(context.Background(), "user-1"); got != 8 {
		t.Fatalf("EstimateDailyCapacity = %d, want 8", got)
	}
}

func TestEstimateDailyCapacity_ClampsToMinimumOne(t *testing.T) {
	t.Parallel()

	store := newTaskStoreStub(
		completedTask("t1", "user-1", effort.SizeXS, dayOffset(-9)),
		completedTask("t2", "user-1", effort.SizeNone, dayOffset(-8)),
		completedTask("t3", "user-1", effort.SizeNone, dayOffset(-7)),
	)
	svc := newService(store)

	// 1 EP over 3 days rounds to 0 and is clamped to 1.
	if got := svc.EstimateDailyCapacity(context.Background(), "user-1"); got != 1 {
		t.Fatalf("EstimateDailyCapacity = %d, want 1", got)
	}
}

func TestEstimateDailyCapacity_StoreErrorFallsBackToDefault(t *testing.T) {
	t.Parallel()

	store := newTaskStoreStub()
	store.getTasksErr = errors.New("boom")
	svc := newService(store)

	if got := svc.EstimateDailyCapacity(context.Background(), "user-1"); got != 8 {
		t.Fatalf("EstimateDailyCapacity = %d, want 8", got)
	}
}

func TestScheduleTask_FitsInOneDay(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeM)
	store := newTaskStoreStub(task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 8)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a scheduled task, got nil")
	}
	if updated.Status != persistence.TaskStatusScheduled {
		t.Fatalf("status = %s, want scheduled", updated.Status)
	}
	if len(updated.Segments) != 1 || updated.Segments[0].EffortPoints != 4 {
		t.Fatalf("unexpected segments: %+v", updated.Segments)
	}
	if !scheduler.SameDay(updated.Segments[0].Date, today()) {
		t.Fatalf("segment date = %v, want today", updated.Segments[0].Date)
	}
	if updated.ScheduledStartDate == nil || !scheduler.SameDay(*updated.ScheduledStartDate, today()) {
		t.Fatalf("scheduled start = %v, want today", updated.ScheduledStartDate)
	}
	if updated.DueDate == nil || !scheduler.SameDay(*updated.DueDate, today()) {
		t.Fatalf("due date = %v, want today", updated.DueDate)
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected a single store update, got %d", len(store.updates))
	}
}

func TestScheduleTask_ZeroEffortSchedulesWithoutSegments(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeNone)
	store := newTaskStoreStub(task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 8)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a scheduled task, got nil")
	}
	if updated.Status != persistence.TaskStatusScheduled {
		t.Fatalf("status = %s, want scheduled", updated.Status)
	}
	if len(updated.Segments) != 0 {
		t.Fatalf("expected no segments, got %+v", updated.Segments)
	}
}

func TestScheduleTask_OversizedSplitsAcrossConsecutiveDays(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeXL) // 16 EP
	store := newTaskStoreStub(task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 5)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a scheduled task, got nil")
	}
	if updated.Status != persistence.TaskStatusScheduled {
		t.Fatalf("status = %s, want scheduled", updated.Status)
	}

	wantPoints := []int{5, 5, 5, 1}
	if len(updated.Segments) != len(wantPoints) {
		t.Fatalf("expected %d segments, got %+v", len(wantPoints), updated.Segments)
	}
	for i, segment := range updated.Segments {
		if segment.EffortPoints != wantPoints[i] {
			t.Errorf("segment %d points = %d, want %d", i, segment.EffortPoints, wantPoints[i])
		}
		if !scheduler.SameDay(segment.Date, dayOffset(i)) {
			t.Errorf("segment %d date = %v, want offset %d", i, segment.Date, i)
		}
	}
	if updated.DueDate == nil || !scheduler.SameDay(*updated.DueDate, dayOffset(3)) {
		t.Fatalf("due date = %v, want day 4", updated.DueDate)
	}
}

func TestScheduleTask_SkipsFullyBookedDay(t *testing.T) {
	t.Parallel()

	blocked := pendingTask("busy", "user-1", effort.SizeL) // 8 EP committed today
	start := today()
	blocked.Status = persistence.TaskStatusScheduled
	blocked.ScheduledStartDate = &start
	blocked.Segments = []persistence.Segment{{
		ID: "busy-1", TaskID: "busy", EffortPoints: 8, Date: start, Status: persistence.SegmentStatusPlanned,
	}}

	task := pendingTask("t1", "user-1", effort.SizeS) // 2 EP
	store := newTaskStoreStub(blocked, task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 8)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a scheduled task, got nil")
	}
	if updated.ScheduledStartDate == nil || !scheduler.SameDay(*updated.ScheduledStartDate, dayOffset(1)) {
		t.Fatalf("scheduled start = %v, want tomorrow", updated.ScheduledStartDate)
	}
}

func TestScheduleTask_RespectsScheduledStartAnchor(t *testing.T) {
	t.Parallel()

	anchor := dayOffset(14)
	task := pendingTask("t1", "user-1", effort.SizeM)
	task.ScheduledStartDate = &anchor
	store := newTaskStoreStub(task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 8)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a scheduled task, got nil")
	}
	if !scheduler.SameDay(*updated.ScheduledStartDate, anchor) {
		t.Fatalf("scheduled start = %v, want anchor %v", updated.ScheduledStartDate, anchor)
	}
}

func TestScheduleTask_NoDayWithinHorizonWritesPending(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeS)
	task.Status = persistence.TaskStatusScheduled
	store := newTaskStoreStub(task)
	store.blockEveryDay = 8
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 8)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil result, got %+v", updated)
	}

	if len(store.updates) != 1 {
		t.Fatalf("expected one pending write-back, got %d updates", len(store.updates))
	}
	wrote := store.updates[0]
	if wrote.update.Status == nil || *wrote.update.Status != persistence.TaskStatusPending {
		t.Fatalf("expected pending status write-back, got %+v", wrote.update)
	}
	if store.tasks["t1"].Status != persistence.TaskStatusPending {
		t.Fatalf("stored status = %s, want pending", store.tasks["t1"].Status)
	}
}

func TestScheduleTask_PartialFitCommitsAsPending(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeXXXL) // 64 EP
	store := newTaskStoreStub(task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 1)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a partially scheduled task, got nil")
	}
	if updated.Status != persistence.TaskStatusPending {
		t.Fatalf("status = %s, want pending", updated.Status)
	}

	// 28-day timeframe at 1 EP/day leaves 36 EP unplaced.
	if len(updated.Segments) != 28 {
		t.Fatalf("expected 28 segments, got %d", len(updated.Segments))
	}
	total := 0
	for _, segment := range updated.Segments {
		total += segment.EffortPoints
	}
	if total != 28 {
		t.Fatalf("committed %d EP, want 28", total)
	}
	if updated.DueDate == nil || !scheduler.SameDay(*updated.DueDate, dayOffset(27)) {
		t.Fatalf("due date = %v, want timeframe end limit", updated.DueDate)
	}
}

func TestScheduleTask_OversizedWithNoCapacityPersistsNothing(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeXL)
	store := newTaskStoreStub(task)
	store.blockEveryDay = 8
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 5)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil result, got %+v", updated)
	}
	if len(store.updates) != 0 {
		t.Fatalf("expected no store updates, got %d", len(store.updates))
	}
}

func TestScheduleTask_UnknownEffortSizeTreatedAsZero(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.Size("gigantic"))
	store := newTaskStoreStub(task)
	svc := newService(store)

	updated, err := svc.ScheduleTask(context.Background(), task, 8)
	if err != nil {
		t.Fatalf("ScheduleTask returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected a scheduled task, got nil")
	}
	if len(updated.Segments) != 0 {
		t.Fatalf("expected no segments for zero effort, got %+v", updated.Segments)
	}
}

func TestRun_LaterTasksObserveEarlierCommitments(t *testing.T) {
	t.Parallel()

	first := pendingTask("t1", "user-1", effort.SizeL)  // 8 EP
	second := pendingTask("t2", "user-1", effort.SizeL) // 8 EP
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	store := newTaskStoreStub(first, second)
	svc := newService(store)

	summary, err := svc.Run(context.Background(), "user-1", []persistence.Task{first, second})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Scheduled != 2 {
		t.Fatalf("scheduled = %d, want 2", summary.Scheduled)
	}

	// The default capacity of 8 fills a day per task.
	got1 := store.tasks["t1"]
	got2 := store.tasks["t2"]
	if got1.ScheduledStartDate == nil || !scheduler.SameDay(*got1.ScheduledStartDate, today()) {
		t.Fatalf("first task start = %v, want today", got1.ScheduledStartDate)
	}
	if got2.ScheduledStartDate == nil || !scheduler.SameDay(*got2.ScheduledStartDate, dayOffset(1)) {
		t.Fatalf("second task start = %v, want tomorrow", got2.ScheduledStartDate)
	}
}

func TestRun_ProcessesBacklogInUrgencyOrder(t *testing.T) {
	t.Parallel()

	due := dayOffset(2)
	urgent := pendingTask("urgent", "user-1", effort.SizeM)
	urgent.DueDate = &due
	casual := pendingTask("casual", "user-1", effort.SizeM)
	store := newTaskStoreStub(casual, urgent)
	svc := newService(store)

	if _, err := svc.Run(context.Background(), "user-1", []persistence.Task{casual, urgent}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(store.updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(store.updates))
	}
	if store.updates[0].taskID != "urgent" {
		t.Fatalf("first update went to %s, want urgent", store.updates[0].taskID)
	}
}

func TestRun_SkipsNonPendingTasks(t *testing.T) {
	t.Parallel()

	scheduled := pendingTask("s1", "user-1", effort.SizeM)
	scheduled.Status = persistence.TaskStatusScheduled
	completed := pendingTask("c1", "user-1", effort.SizeM)
	completed.Status = persistence.TaskStatusCompleted
	store := newTaskStoreStub(scheduled, completed)
	svc := newService(store)

	summary, err := svc.Run(context.Background(), "user-1", []persistence.Task{scheduled, completed})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", summary.Skipped)
	}
	if len(store.updates) != 0 {
		t.Fatalf("expected no updates, got %d", len(store.updates))
	}
}

func TestRun_UpdateFailureAbortsRemainder(t *testing.T) {
	t.Parallel()

	first := pendingTask("t1", "user-1", effort.SizeS)
	second := pendingTask("t2", "user-1", effort.SizeS)
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	store := newTaskStoreStub(first, second)
	store.updateErr = errors.New("write failed")
	store.updateErrAfter = 1
	svc := newService(store)

	_, err := svc.Run(context.Background(), "user-1", []persistence.Task{first, second})
	if err == nil {
		t.Fatal("expected run to propagate the update failure")
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected exactly one successful update, got %d", len(store.updates))
	}
	if store.updates[0].taskID != "t1" {
		t.Fatalf("first update went to %s, want t1", store.updates[0].taskID)
	}
}

func TestRun_FixedCapacityOverrideSkipsEstimation(t *testing.T) {
	t.Parallel()

	task := pendingTask("t1", "user-1", effort.SizeXL) // 16 EP
	store := newTaskStoreStub(task)
	svc := newService(store).WithFixedCapacity(5)

	summary, err := svc.Run(context.Background(), "user-1", []persistence.Task{task})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Capacity != 5 {
		t.Fatalf("capacity = %d, want 5", summary.Capacity)
	}
	if got := len(store.tasks["t1"].Segments); got != 4 {
		t.Fatalf("expected 4 segments, got %d", got)
	}
}

func TestRunForUser_QueriesPendingBacklog(t *testing.T) {
	t.Parallel()

	pending := pendingTask("p1", "user-1", effort.SizeS)
	archived := pendingTask("a1", "user-1", effort.SizeS)
	archived.IsArchived = true
	other := pendingTask("o1", "user-2", effort.SizeS)
	store := newTaskStoreStub(pending, archived, other)
	svc := newService(store)

	summary, err := svc.RunForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RunForUser returned error: %v", err)
	}
	if summary.Processed() != 1 {
		t.Fatalf("processed = %d, want 1", summary.Processed())
	}
	if store.tasks["p1"].Status != persistence.TaskStatusScheduled {
		t.Fatalf("pending task status = %s, want scheduled", store.tasks["p1"].Status)
	}
	if store.tasks["o1"].Status != persistence.TaskStatusPending {
		t.Fatal("task belonging to another user must not be touched")
	}
}

func TestRunForUser_BacklogQueryErrorPropagates(t *testing.T) {
	t.Parallel()

	store := newTaskStoreStub()
	store.getTasksErr = errors.New("query failed")
	svc := newService(store)

	if _, err := svc.RunForUser(context.Background(), "user-1"); err == nil {
		t.Fatal("expected backlog query error to propagate")
	}
}

func TestEffortCommittedOn_IgnoresOtherUsersAndArchived(t *testing.T) {
	t.Parallel()

	start := today()
	mine := pendingTask("mine", "user-1", effort.SizeM)
	mine.ScheduledStartDate = &start
	archived := pendingTask("archived", "user-1", effort.SizeL)
	archived.ScheduledStartDate = &start
	archived.IsArchived = true
	foreign := pendingTask("foreign", "user-2", effort.SizeL)
	foreign.ScheduledStartDate = &start
	store := newTaskStoreStub(mine, archived, foreign)
	svc := newService(store)

	committed, err := svc.effortCommittedOn(context.Background(), start, "user-1")
	if err != nil {
		t.Fatalf("effortCommittedOn returned error: %v", err)
	}
	if committed != 4 {
		t.Fatalf("committed = %d, want 4", committed)
	}
}

func TestEffortCommittedOn_SegmentsTakePrecedenceOverWholeTask(t *testing.T) {
	t.Parallel()

	start := today()
	task := pendingTask("t1", "user-1", effort.SizeXL) // 16 EP total
	task.ScheduledStartDate = &start
	task.Segments = []persistence.Segment{
		{ID: "s1", TaskID: "t1", EffortPoints: 5, Date: start, Status: persistence.SegmentStatusPlanned},
		{ID: "s2", TaskID: "t1", EffortPoints: 5, Date: dayOffset(1), Status: persistence.SegmentStatusPlanned},
	}
	store := newTaskStoreStub(task)
	svc := newService(store)

	committed, err := svc.effortCommittedOn(context.Background(), start, "user-1")
	if err != nil {
		t.Fatalf("effortCommittedOn returned error: %v", err)
	}
	// Only the segment dated today counts, not the whole 16 EP.
	if committed != 5 {
		t.Fatalf("committed = %d, want 5", committed)
	}
}
