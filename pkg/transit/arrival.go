package transit

import "time"

type ArrivalSource string

const (
	ArrivalSourceLive      ArrivalSource = "live"
	ArrivalSourceScheduled ArrivalSource = "scheduled-only"
)

// Arrival is one row of a resolved arrival board: a schedule candidate, a
// live prediction, or both reconciled into a single entry.
type Arrival struct {
	LineName    string        `groups:"basic" json:"line_name"`
	Destination string        `groups:"basic" json:"destination"`
	ETA         time.Time     `groups:"basic" json:"eta"`
	Source      ArrivalSource `groups:"basic" json:"source"`

	// Unscheduled marks a live arrival for a line that serves this stop but
	// had no schedule candidate within the lookup window.
	Unscheduled bool `groups:"basic" json:"unscheduled,omitempty"`

	Accessible   bool   `groups:"basic" json:"accessible"`
	DirectionRef string `groups:"basic" json:"direction_ref,omitempty"`

	OperatorRef  string `groups:"detailed" json:"operator_ref,omitempty"`
	OperatorName string `groups:"basic" json:"operator_name,omitempty"`
	VehicleRef   string `groups:"detailed" json:"vehicle_ref,omitempty"`

	ScheduledAt time.Time `groups:"detailed" json:"scheduled_at,omitempty"`
}

// StopBoard is the resolve result for one (stop, route filter) key, ordered
// ascending by ETA. Degraded means the board was produced without (complete)
// live data.
type StopBoard struct {
	StopCode string    `groups:"basic" json:"stop_code"`
	Arrivals []Arrival `groups:"basic" json:"arrivals"`
	Degraded bool      `groups:"basic" json:"degraded"`

	GeneratedAt time.Time `groups:"basic" json:"generated_at"`
}
