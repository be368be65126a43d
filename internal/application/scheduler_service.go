package application

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/example/effort-scheduler/internal/effort"
	"github.com/example/effort-scheduler/internal/persistence"
	"github.com/example/effort-scheduler/internal/scheduler"
)

const (
	// defaultDailyCapacity is assumed when no completion history exists or
	// the estimate cannot be computed.
	defaultDailyCapacity = 8
	// capacityWindowDays bounds the completion history consulted by the
	// capacity estimate. The window is half open: it includes the day 90
	// days ago and excludes today.
	capacityWindowDays = 90
)

// SchedulerService assigns calendar dates to a user's backlog given a finite
// daily capacity, splitting oversized tasks into multi-day segments and
// balancing around effort already committed.
type SchedulerService struct {
	store            persistence.TaskStore
	idGenerator      func() string
	now              func() time.Time
	logger           *slog.Logger
	loads            *loadCache
	capacityOverride int
}

// NewSchedulerService wires dependencies for scheduling operations.
func NewSchedulerService(store persistence.TaskStore, idGenerator func() string, now func() time.Time) *SchedulerService {
	return NewSchedulerServiceWithLogger(store, idGenerator, now, nil)
}

// NewSchedulerServiceWithLogger constructs a scheduler service with a
// specified logger.
func NewSchedulerServiceWithLogger(store persistence.TaskStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SchedulerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SchedulerService{
		store:       store,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		loads:       newLoadCache(0),
	}
}

// WithFixedCapacity pins the daily capacity instead of estimating it from
// completion history. Non-positive values restore estimation.
func (s *SchedulerService) WithFixedCapacity(capacity int) *SchedulerService {
	s.capacityOverride = capacity
	return s
}

func (s *SchedulerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SchedulerService", operation, attrs...)
}

// Run executes one scheduling pass over the supplied backlog. The capacity
// estimate is computed once, the backlog is ordered by urgency, and each
// pending task is placed in sequence. Tasks are committed independently;
// only a store update failure aborts the remainder of the run.
func (s *SchedulerService) Run(ctx context.Context, userID string, backlog []persistence.Task) (RunSummary, error) {
	summary := RunSummary{UserID: userID}
	if s == nil || s.store == nil {
		return summary, ErrStoreUnavailable
	}

	logger := s.loggerWith(ctx, "Run", "user_id", userID)

	capacity := s.capacityOverride
	if capacity <= 0 {
		capacity = s.EstimateDailyCapacity(ctx, userID)
	}
	summary.Capacity = capacity

	// Stale entries from a previous run must not leak into this one.
	s.loads.Invalidate()

	ordered := scheduler.SortTasksForScheduling(backlog)
	for _, task := range ordered {
		if task.Status != persistence.TaskStatusPending {
			summary.Skipped++
			continue
		}

		updated, err := s.ScheduleTask(ctx, task, capacity)
		if err != nil {
			logger.ErrorContext(ctx, "scheduling run aborted", "task_id", task.ID, "error", err, "error_kind", ErrorKind(err))
			return summary, err
		}

		switch {
		case updated == nil:
			summary.Deferred++
		case updated.Status == persistence.TaskStatusScheduled:
			summary.Scheduled++
		default:
			summary.Partial++
		}
	}

	logger.InfoContext(ctx, "scheduling run finished",
		"capacity", summary.Capacity,
		"scheduled", summary.Scheduled,
		"partial", summary.Partial,
		"deferred", summary.Deferred,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// RunForUser queries the user's pending backlog before delegating to Run.
func (s *SchedulerService) RunForUser(ctx context.Context, userID string) (RunSummary, error) {
	if s == nil || s.store == nil {
		return RunSummary{UserID: userID}, ErrStoreUnavailable
	}

	pending := persistence.TaskStatusPending
	archived := false
	backlog, err := s.store.GetTasks(ctx, persistence.TaskFilter{
		UserID:     userID,
		IsArchived: &archived,
		Status:     &pending,
	})
	if err != nil {
		return RunSummary{UserID: userID}, err
	}

	return s.Run(ctx, userID, backlog)
}

// EstimateDailyCapacity derives the user's sustainable effort throughput
// from the past 90 days of completed work. The total completed effort is
// averaged over the distinct days on which anything completed, so idle days
// do not drag the estimate down. Store failures fall back to the default;
// the estimate is never fatal to a run.
func (s *SchedulerService) EstimateDailyCapacity(ctx context.Context, userID string) int {
	logger := s.loggerWith(ctx, "EstimateDailyCapacity", "user_id", userID)

	if s.store == nil {
		return defaultDailyCapacity
	}

	today := scheduler.DayOf(s.now())
	windowStart := today.AddDate(0, 0, -capacityWindowDays)

	completed := persistence.TaskStatusCompleted
	archived := false
	tasks, err := s.store.GetTasks(ctx, persistence.TaskFilter{
		UserID:          userID,
		IsArchived:      &archived,
		Status:          &completed,
		CompletedAfter:  &windowStart,
		CompletedBefore: &today,
	})
	if err != nil {
		logger.WarnContext(ctx, "capacity estimate failed, using default", "error", err, "default", defaultDailyCapacity)
		return defaultDailyCapacity
	}

	totalPoints := 0
	activeDays := make(map[string]struct{})
	for _, task := range tasks {
		if task.CompletedDate == nil {
			continue
		}
		totalPoints += task.EffortPoints()
		activeDays[scheduler.DayOf(*task.CompletedDate).Format(scheduler.ISODate)] = struct{}{}
	}

	if len(tasks) == 0 || len(activeDays) == 0 {
		return defaultDailyCapacity
	}

	estimate := int(math.Round(float64(totalPoints) / float64(len(activeDays))))
	if estimate < 1 {
		estimate = 1
	}

	logger.DebugContext(ctx, "capacity estimated", "total_points", totalPoints, "active_days", len(activeDays), "capacity", estimate)
	return estimate
}

// ScheduleTask places a single task and persists the outcome with one store
// update. A nil result without error means the task could not be placed now
// and remains pending for a later run.
func (s *SchedulerService) ScheduleTask(ctx context.Context, task persistence.Task, capacity int) (*persistence.Task, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreUnavailable
	}

	logger := s.loggerWith(ctx, "ScheduleTask", "task_id", task.ID, "user_id", task.UserID)

	if !effort.Known(task.EffortSize) {
		logger.WarnContext(ctx, "unknown effort size treated as zero effort", "effort_size", string(task.EffortSize))
	}
	points := task.EffortPoints()

	if points <= capacity {
		return s.scheduleWithinDay(ctx, logger, task, capacity, points)
	}
	return s.scheduleAcrossDays(ctx, logger, task, capacity, points)
}

// scheduleWithinDay handles tasks whose full effort fits a single day,
// including the zero-effort case.
func (s *SchedulerService) scheduleWithinDay(ctx context.Context, logger *slog.Logger, task persistence.Task, capacity, points int) (*persistence.Task, error) {
	day, found, err := s.findFirstAvailableDay(ctx, task, capacity, points)
	if err != nil {
		return nil, err
	}

	if !found {
		// Write pending back even when unchanged so a retried update stays
		// idempotent and the store reflects the scheduling decision.
		pending := persistence.TaskStatusPending
		if _, err := s.updateTask(ctx, task.ID, persistence.TaskUpdate{Status: &pending}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	segments := []persistence.Segment{}
	if points > 0 {
		segments = append(segments, persistence.Segment{
			ID:           s.idGenerator(),
			TaskID:       task.ID,
			EffortPoints: points,
			Date:         day,
			Status:       persistence.SegmentStatusPlanned,
		})
	}

	scheduled := persistence.TaskStatusScheduled
	startDate := day
	dueDate := day
	updated, err := s.updateTask(ctx, task.ID, persistence.TaskUpdate{
		Segments:           &segments,
		Status:             &scheduled,
		ScheduledStartDate: &startDate,
		DueDate:            &dueDate,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "task scheduled", "date", day.Format(scheduler.ISODate), "effort_points", points)
	return &updated, nil
}

// scheduleAcrossDays spreads an oversized task over its timeframe. A partial
// fit is committed as pending rather than dropped; a total miss persists
// nothing.
func (s *SchedulerService) scheduleAcrossDays(ctx context.Context, logger *slog.Logger, task persistence.Task, capacity, points int) (*persistence.Task, error) {
	plan, err := s.planSegments(ctx, logger, task, capacity, points)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}

	startDate := plan.segments[0].Date
	dueDate := plan.segments[len(plan.segments)-1].Date
	if plan.status == persistence.TaskStatusPending && plan.effectiveDueDate != nil {
		dueDate = *plan.effectiveDueDate
	}

	status := plan.status
	updated, err := s.updateTask(ctx, task.ID, persistence.TaskUpdate{
		Segments:           &plan.segments,
		Status:             &status,
		ScheduledStartDate: &startDate,
		DueDate:            &dueDate,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "task segmented",
		"segments", len(plan.segments),
		"status", string(plan.status),
		"start", startDate.Format(scheduler.ISODate),
		"due", dueDate.Format(scheduler.ISODate),
	)
	return &updated, nil
}

// findFirstAvailableDay scans forward from the task's start anchor for the
// first day with enough spare capacity for the full task effort.
func (s *SchedulerService) findFirstAvailableDay(ctx context.Context, task persistence.Task, capacity, points int) (time.Time, bool, error) {
	start := s.startAnchor(task)

	for offset := 0; offset < scheduler.HorizonDays; offset++ {
		day := start.AddDate(0, 0, offset)
		committed, err := s.effortCommittedOn(ctx, day, task.UserID)
		if err != nil {
			return time.Time{}, false, err
		}
		if capacity-committed >= points {
			return day, true, nil
		}
	}

	s.loggerWith(ctx, "findFirstAvailableDay", "task_id", task.ID).WarnContext(ctx,
		"no available day within horizon", "horizon_days", scheduler.HorizonDays, "effort_points", points)
	return time.Time{}, false, nil
}

// planSegments walks the task's timeframe allocating day-sized chunks
// wherever spare capacity exists.
func (s *SchedulerService) planSegments(ctx context.Context, logger *slog.Logger, task persistence.Task, capacity, points int) (*segmentPlan, error) {
	remaining := points
	start := s.startAnchor(task)
	timeframe := scheduler.TimeframeFor(points)
	if timeframe > scheduler.HorizonDays {
		timeframe = scheduler.HorizonDays
	}
	endLimit := start.AddDate(0, 0, timeframe-1)

	segments := make([]persistence.Segment, 0, timeframe)
	for offset := 0; offset < timeframe && remaining > 0; offset++ {
		day := start.AddDate(0, 0, offset)
		committed, err := s.effortCommittedOn(ctx, day, task.UserID)
		if err != nil {
			return nil, err
		}

		spare := capacity - committed
		if spare <= 0 {
			continue
		}

		allocation := minInt(remaining, spare, capacity)
		segments = append(segments, persistence.Segment{
			ID:           s.idGenerator(),
			TaskID:       task.ID,
			EffortPoints: allocation,
			Date:         day,
			Status:       persistence.SegmentStatusPlanned,
		})
		remaining -= allocation
	}

	if len(segments) == 0 {
		logger.WarnContext(ctx, "no capacity anywhere in timeframe", "timeframe_days", timeframe)
		return nil, nil
	}

	plan := &segmentPlan{segments: segments, status: persistence.TaskStatusScheduled}
	if remaining > 0 {
		plan.status = persistence.TaskStatusPending
		plan.effectiveDueDate = &endLimit
		logger.WarnContext(ctx, "task only partially scheduled",
			"remaining_points", remaining, "timeframe_days", timeframe)
	}
	return plan, nil
}

// effortCommittedOn sums the effort already committed on a day for the user:
// segment points where the segment date matches, or the whole task's points
// for unsegmented tasks starting that day. Results are memoized until the
// next task update.
func (s *SchedulerService) effortCommittedOn(ctx context.Context, day time.Time, userID string) (int, error) {
	day = scheduler.DayOf(day)
	key := buildLoadCacheKey(userID, day)
	if committed, ok := s.loads.Get(key); ok {
		return committed, nil
	}

	tasks, err := s.store.GetTasksContributingToEffortOnDate(ctx, day, userID)
	if err != nil {
		return 0, err
	}

	committed := 0
	for _, task := range tasks {
		if task.UserID != userID || task.IsArchived {
			continue
		}
		if len(task.Segments) > 0 {
			for _, segment := range task.Segments {
				if scheduler.SameDay(segment.Date, day) {
					committed += segment.EffortPoints
				}
			}
			continue
		}
		if task.ScheduledStartDate != nil && scheduler.SameDay(*task.ScheduledStartDate, day) {
			committed += task.EffortPoints()
		}
	}

	s.loads.Store(key, committed)
	return committed, nil
}

// updateTask issues the single persistence write for a task and drops any
// memoized day loads so later scans in the run observe the new segments.
func (s *SchedulerService) updateTask(ctx context.Context, id string, update persistence.TaskUpdate) (persistence.Task, error) {
	updated, err := s.store.UpdateTask(ctx, id, update)
	if err != nil {
		return persistence.Task{}, err
	}
	s.loads.Invalidate()
	return updated, nil
}

// startAnchor resolves where a task's forward scan begins: its scheduled
// start date when set, today otherwise.
func (s *SchedulerService) startAnchor(task persistence.Task) time.Time {
	if task.ScheduledStartDate != nil && !task.ScheduledStartDate.IsZero() {
		return scheduler.DayOf(*task.ScheduledStartDate)
	}
	return scheduler.DayOf(s.now())
}

func minInt(values ...int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
