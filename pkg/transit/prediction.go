package transit

import "time"

// LivePrediction is a single vehicle arrival prediction from a realtime feed.
// Predictions are ephemeral - they live for one resolution cycle and are
// never persisted.
type LivePrediction struct {
	OperatorRef     string
	LineName        string
	DirectionRef    string
	DestinationName string

	ExpectedArrival time.Time
	RecordedAt      time.Time

	VehicleRef string
}

// PredictionSet is the outcome of one realtime fetch. Degraded means the
// upstream could not be (fully) reached and the predictions are empty or
// partial - never an error, live data is best effort.
type PredictionSet struct {
	Predictions []LivePrediction
	Degraded    bool
}
