package transit

type Trip struct {
	ID        string `groups:"detailed" json:"id"`
	RouteID   string `groups:"internal" json:"-"`
	ServiceID string `groups:"internal" json:"-"`

	Headsign string `groups:"basic" json:"headsign,omitempty"`

	// DirectionRef is the direction/alternative identifier within the route.
	// The source feed uses it to distinguish route alternatives sharing a
	// line number.
	DirectionRef string `groups:"basic" json:"direction_ref,omitempty"`

	WheelchairAccessible bool `groups:"basic" json:"wheelchair_accessible"`
}
