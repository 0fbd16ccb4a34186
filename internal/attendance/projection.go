package attendance

import (
	"math"
	"strconv"
)

// Defaults used by callers that take projection parameters from loosely
// specified sources such as tool arguments.
const (
	DefaultTargetPercentage = 75.0
	DefaultUpcomingClasses  = 10
	DefaultTrendHorizon     = 15
)

// maxPlausibleClassesNeeded guards ClassesNeeded against nonsensical
// results from degenerate inputs.
const maxPlausibleClassesNeeded = 1000

// Projection is the tagged result of ClassesNeeded. When Unreachable is
// set the target cannot be met by any finite number of future sessions and
// Classes carries no meaning.
type Projection struct {
	Unreachable bool `json:"unreachable"`
	Classes     int  `json:"classes"`
}

// String renders the projection for display.
func (p Projection) String() string {
	if p.Unreachable {
		return "unreachable"
	}
	return strconv.Itoa(p.Classes)
}

// ClassesNeeded computes the minimum number of consecutive future sessions
// that must all be attended for present/total to reach the target
// percentage. A zero total or an already-met target yields 0. A target of
// exactly 100 that is not already met is unreachable, since every future
// session also grows the total. Results outside [0, 1000] are treated as
// computation faults and collapse to 0.
func ClassesNeeded(present, total int, target float64) Projection {
	if total == 0 {
		return Projection{}
	}

	current := float64(present) / float64(total) * 100
	if current >= target {
		return Projection{}
	}
	if target == 100 {
		return Projection{Unreachable: true}
	}

	// Solves (present + x) / (total + x) = target/100 for the smallest
	// non-negative integer x.
	needed := int(math.Ceil((target*float64(total) - 100*float64(present)) / (100 - target)))
	if needed < 0 || needed > maxPlausibleClassesNeeded {
		return Projection{}
	}
	return Projection{Classes: needed}
}

// ClassesCanMiss computes how many of the upcoming sessions can be skipped
// while the percentage over total+upcoming sessions stays at or above the
// target. With no baseline every upcoming session is free; below the
// target none are. The result is clamped to [0, upcoming].
func ClassesCanMiss(present, total int, target float64, upcoming int) int {
	if upcoming <= 0 {
		return 0
	}
	if total == 0 {
		return upcoming
	}

	current := float64(present) / float64(total) * 100
	if current < target {
		return 0
	}

	futurePresent := float64(present + upcoming)
	futureTotal := float64(total + upcoming)
	maxSkip := int(math.Floor(futurePresent - target*futureTotal/100))

	if maxSkip < 0 {
		return 0
	}
	if maxSkip > upcoming {
		return upcoming
	}
	return maxSkip
}

// TrendPoint is one step of a forward attendance projection.
type TrendPoint struct {
	AfterClasses int     `json:"after_classes"`
	IfAttended   float64 `json:"if_attended"`
	IfMissed     float64 `json:"if_missed"`
}

// Trend projects how the percentage evolves over the next horizon sessions
// under the two extreme scenarios: attending every one or missing every
// one. Point zero is the current state. A negative horizon yields an empty
// series.
func Trend(present, total, horizon int) []TrendPoint {
	if horizon < 0 {
		return []TrendPoint{}
	}

	points := make([]TrendPoint, 0, horizon+1)
	for i := 0; i <= horizon; i++ {
		points = append(points, TrendPoint{
			AfterClasses: i,
			IfAttended:   Percentage(present+i, total+i),
			IfMissed:     Percentage(present, total+i),
		})
	}
	return points
}
