package transit

import "time"

type StopTime struct {
	TripID string
	StopID string

	// ArrivalSeconds and DepartureSeconds are seconds since service-day
	// midnight. GTFS allows values past 24:00:00 for trips that run over
	// midnight on the previous service day.
	ArrivalSeconds   int
	DepartureSeconds int

	// Sequence is the stop ordinal within the trip. StopTimes of one trip
	// are strictly increasing in Sequence.
	Sequence int
}

// ScheduleCandidate is one joined (StopTime, Trip, Route, Stop) row returned
// by the schedule store for a lookup window.
type ScheduleCandidate struct {
	StopTime StopTime
	Trip     Trip
	Route    Route
	Stop     Stop

	// ScheduledAt is the StopTime arrival resolved against a concrete
	// service day into an absolute timestamp.
	ScheduledAt time.Time
}
