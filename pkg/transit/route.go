package transit

type Route struct {
	ID          string `groups:"internal" json:"-"`
	OperatorRef string `groups:"basic" json:"operator_ref"`

	// LineName is the public line number shown on the vehicle, GTFS
	// route_short_name.
	LineName    string `groups:"basic" json:"line_name"`
	LongName    string `groups:"detailed" json:"long_name,omitempty"`
	Description string `groups:"detailed" json:"description,omitempty"`
}

// RouteLine identifies a line independently of its direction or alternative.
type RouteLine struct {
	OperatorRef string
	LineName    string
}

// RouteSet is the full set of lines known to serve a stop at any time of day,
// not just within the current lookup window.
type RouteSet map[RouteLine]struct{}

func (rs RouteSet) Contains(operatorRef, lineName string) bool {
	_, ok := rs[RouteLine{OperatorRef: operatorRef, LineName: lineName}]
	return ok
}
