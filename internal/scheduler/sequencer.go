package scheduler

import (
	"sort"
	"time"

	"github.com/example/effort-scheduler/internal/persistence"
)

// SortTasksForScheduling orders a backlog by urgency before committal. The
// sort is stable and returns a new slice; the input is never mutated.
//
// Precedence, each tier breaking ties in the next:
//  1. Due date ascending, tasks with a due date before tasks without one.
//  2. Target deadline ascending, non-nil before nil.
//  3. Priority rank ascending (HIGH < NORMAL < LOW < LOWEST).
//  4. Creation timestamp ascending, non-zero before zero.
func SortTasksForScheduling(tasks []persistence.Task) []persistence.Task {
	ordered := make([]persistence.Task, len(tasks))
	copy(ordered, tasks)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		if cmp := compareOptionalDays(a.DueDate, b.DueDate); cmp != 0 {
			return cmp < 0
		}
		if cmp := compareOptionalDays(a.TargetDate, b.TargetDate); cmp != 0 {
			return cmp < 0
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return compareCreatedAt(a.CreatedAt, b.CreatedAt) < 0
	})

	return ordered
}

// compareOptionalDays orders day-granular optional dates ascending with nil
// (or zero, the stand-in for an unparseable stored value) sorting last.
func compareOptionalDays(a, b *time.Time) int {
	aSet := a != nil && !a.IsZero()
	bSet := b != nil && !b.IsZero()

	switch {
	case aSet && bSet:
		dayA, dayB := DayOf(*a), DayOf(*b)
		if dayA.Before(dayB) {
			return -1
		}
		if dayA.After(dayB) {
			return 1
		}
		return 0
	case aSet:
		return -1
	case bSet:
		return 1
	default:
		return 0
	}
}

func compareCreatedAt(a, b time.Time) int {
	switch {
	case !a.IsZero() && !b.IsZero():
		if a.Before(b) {
			return -1
		}
		if a.After(b) {
			return 1
		}
		return 0
	case !a.IsZero():
		return -1
	case !b.IsZero():
		return 1
	default:
		return 0
	}
}
