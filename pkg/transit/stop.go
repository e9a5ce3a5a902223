package transit

type Stop struct {
	ID   string `groups:"internal" json:"-"`
	Code string `groups:"basic" json:"code"`

	Name        string `groups:"basic" json:"name"`
	Description string `groups:"detailed" json:"description,omitempty"`
	City        string `groups:"basic" json:"city,omitempty"`

	Location *Location `groups:"basic" json:"location"`
}

type Location struct {
	Latitude  float64 `groups:"basic" json:"latitude"`
	Longitude float64 `groups:"basic" json:"longitude"`
}
