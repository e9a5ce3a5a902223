package siri_sm

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/nextride/nextride/pkg/transit"
)

type candidateSource interface {
	FindCandidates(ctx context.Context, stopCode string, asOf time.Time, window time.Duration) ([]transit.ScheduleCandidate, error)
}

// MockClient is a deterministic stand-in for the upstream feed used in
// development and tests. It only ever predicts lines the schedule says are
// valid at the stop, with a small per-trip offset from the scheduled time.
type MockClient struct {
	Store  candidateSource
	Window time.Duration
}

func NewMockClient(store candidateSource, window time.Duration) *MockClient {
	return &MockClient{Store: store, Window: window}
}

func (m *MockClient) Fetch(ctx context.Context, stopCode string) (transit.PredictionSet, error) {
	candidates, err := m.Store.FindCandidates(ctx, stopCode, time.Now(), m.Window)
	if err != nil {
		return transit.PredictionSet{Degraded: true}, nil
	}

	var predictions []transit.LivePrediction
	for _, candidate := range candidates {
		offset := tripOffset(candidate.Trip.ID)

		predictions = append(predictions, transit.LivePrediction{
			OperatorRef:     candidate.Route.OperatorRef,
			LineName:        candidate.Route.LineName,
			DirectionRef:    candidate.Trip.DirectionRef,
			DestinationName: candidate.Trip.Headsign,
			ExpectedArrival: candidate.ScheduledAt.Add(offset),
			RecordedAt:      time.Now(),
			VehicleRef:      "MOCK-" + candidate.Trip.ID,
		})
	}

	return transit.PredictionSet{Predictions: predictions}, nil
}

// tripOffset derives a stable drift in [-3m, +5m) from the trip identifier.
func tripOffset(tripID string) time.Duration {
	hasher := fnv.New32a()
	hasher.Write([]byte(tripID))

	minutes := int(hasher.Sum32()%8) - 3

	return time.Duration(minutes) * time.Minute
}
