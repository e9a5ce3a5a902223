package resolver

import (
	"sort"
	"time"

	"github.com/nextride/nextride/pkg/operators"
	"github.com/nextride/nextride/pkg/transit"
	"github.com/rs/zerolog/log"
)

type matchKey struct {
	OperatorRef  string
	LineName     string
	DirectionRef string
}

// Reconciler merges one set of schedule candidates with one set of live
// predictions into a ranked arrival board. Matching keys candidates by
// (operator, line, direction) and picks the candidate whose scheduled time is
// nearest the predicted arrival, bounded by the tolerance window so a late
// night prediction cannot claim a morning trip on the same line.
type Reconciler struct {
	Tolerance  time.Duration
	MaxResults int
}

type reconcileOutcome struct {
	Arrivals []transit.Arrival

	// UnknownLines counts live predictions for lines never associated with
	// the stop. They are dropped from the board and only surfaced through
	// diagnostics.
	UnknownLines int
}

func (r Reconciler) Reconcile(candidates []transit.ScheduleCandidate, predictions []transit.LivePrediction, routeSet transit.RouteSet) reconcileOutcome {
	byKey := map[matchKey][]int{}
	for index, candidate := range candidates {
		key := matchKey{
			OperatorRef:  candidate.Route.OperatorRef,
			LineName:     candidate.Route.LineName,
			DirectionRef: candidate.Trip.DirectionRef,
		}
		byKey[key] = append(byKey[key], index)
	}

	claimed := make([]bool, len(candidates))
	outcome := reconcileOutcome{}

	for _, prediction := range predictions {
		key := matchKey{
			OperatorRef:  prediction.OperatorRef,
			LineName:     prediction.LineName,
			DirectionRef: prediction.DirectionRef,
		}

		matchIndex := r.bestCandidate(candidates, claimed, byKey[key], prediction.ExpectedArrival)

		if matchIndex >= 0 {
			claimed[matchIndex] = true
			outcome.Arrivals = append(outcome.Arrivals, mergedFromMatch(candidates[matchIndex], prediction))
			continue
		}

		if routeSet.Contains(prediction.OperatorRef, prediction.LineName) {
			// The line serves this stop at some point of the day, just not
			// within the current schedule window.
			arrival := arrivalFromPrediction(prediction)
			arrival.Unscheduled = true
			outcome.Arrivals = append(outcome.Arrivals, arrival)
			continue
		}

		log.Debug().
			Str("operator", prediction.OperatorRef).
			Str("line", prediction.LineName).
			Msg("Dropping live prediction for a line unknown at this stop")
		outcome.UnknownLines++
	}

	for index, candidate := range candidates {
		if claimed[index] {
			continue
		}
		outcome.Arrivals = append(outcome.Arrivals, arrivalFromCandidate(candidate))
	}

	sort.SliceStable(outcome.Arrivals, func(i, j int) bool {
		return outcome.Arrivals[i].ETA.Before(outcome.Arrivals[j].ETA)
	})

	if r.MaxResults > 0 && len(outcome.Arrivals) > r.MaxResults {
		outcome.Arrivals = outcome.Arrivals[:r.MaxResults]
	}

	return outcome
}

// bestCandidate picks the unclaimed candidate nearest to the expected
// arrival within the tolerance window. Ties on the absolute delta are broken
// by the lower stop sequence so the earlier trip wins.
func (r Reconciler) bestCandidate(candidates []transit.ScheduleCandidate, claimed []bool, indexes []int, expected time.Time) int {
	best := -1
	var bestDelta time.Duration

	for _, index := range indexes {
		if claimed[index] {
			continue
		}

		delta := candidates[index].ScheduledAt.Sub(expected)
		if delta < 0 {
			delta = -delta
		}
		if delta > r.Tolerance {
			continue
		}

		switch {
		case best < 0:
			best = index
			bestDelta = delta
		case delta < bestDelta:
			best = index
			bestDelta = delta
		case delta == bestDelta:
			log.Debug().
				Str("trip", candidates[index].Trip.ID).
				Str("other", candidates[best].Trip.ID).
				Msg("Ambiguous live match resolved by stop sequence")
			if candidates[index].StopTime.Sequence < candidates[best].StopTime.Sequence {
				best = index
			}
		}
	}

	return best
}

func mergedFromMatch(candidate transit.ScheduleCandidate, prediction transit.LivePrediction) transit.Arrival {
	destination := prediction.DestinationName
	if destination == "" {
		destination = candidate.Trip.Headsign
	}

	return transit.Arrival{
		LineName:     candidate.Route.LineName,
		Destination:  destination,
		ETA:          prediction.ExpectedArrival,
		Source:       transit.ArrivalSourceLive,
		Accessible:   candidate.Trip.WheelchairAccessible,
		DirectionRef: candidate.Trip.DirectionRef,
		OperatorRef:  candidate.Route.OperatorRef,
		OperatorName: operators.EnglishName(candidate.Route.OperatorRef),
		VehicleRef:   prediction.VehicleRef,
		ScheduledAt:  candidate.ScheduledAt,
	}
}

func arrivalFromPrediction(prediction transit.LivePrediction) transit.Arrival {
	return transit.Arrival{
		LineName:     prediction.LineName,
		Destination:  prediction.DestinationName,
		ETA:          prediction.ExpectedArrival,
		Source:       transit.ArrivalSourceLive,
		DirectionRef: prediction.DirectionRef,
		OperatorRef:  prediction.OperatorRef,
		OperatorName: operators.EnglishName(prediction.OperatorRef),
		VehicleRef:   prediction.VehicleRef,
	}
}

func arrivalFromCandidate(candidate transit.ScheduleCandidate) transit.Arrival {
	return transit.Arrival{
		LineName:     candidate.Route.LineName,
		Destination:  candidate.Trip.Headsign,
		ETA:          candidate.ScheduledAt,
		Source:       transit.ArrivalSourceScheduled,
		Accessible:   candidate.Trip.WheelchairAccessible,
		DirectionRef: candidate.Trip.DirectionRef,
		OperatorRef:  candidate.Route.OperatorRef,
		OperatorName: operators.EnglishName(candidate.Route.OperatorRef),
		ScheduledAt:  candidate.ScheduledAt,
	}
}
