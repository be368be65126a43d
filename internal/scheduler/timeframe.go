package scheduler

// timeframe bounds widen conservatively with task size so large tasks get
// room to spread without monopolising the calendar. The cap at 28 days for
// anything above 32 EP is a known simplification; scaling the window with
// size remains unresolved.
const (
	timeframeSmallDays  = 7
	timeframeMediumDays = 14
	timeframeLargeDays  = 28
)

// TimeframeFor returns the number of days a task of the given total effort
// may spread its segments across.
func TimeframeFor(totalEffortPoints int) int {
	switch {
	case totalEffortPoints <= 8:
		return timeframeSmallDays
	case totalEffortPoints <= 16:
		return timeframeMediumDays
	default:
		return timeframeLargeDays
	}
}
