package siri_sm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nextride/nextride/pkg/transit"
)

type fakeCandidateSource struct {
	candidates []transit.ScheduleCandidate
	err        error
}

func (f *fakeCandidateSource) FindCandidates(ctx context.Context, stopCode string, asOf time.Time, window time.Duration) ([]transit.ScheduleCandidate, error) {
	return f.candidates, f.err
}

func TestMockClientPredictsOnlyScheduledLines(t *testing.T) {
	scheduledAt := time.Now().Add(15 * time.Minute)
	source := &fakeCandidateSource{
		candidates: []transit.ScheduleCandidate{
			{
				Trip:        transit.Trip{ID: "trip-a", DirectionRef: "1", Headsign: "Central Station"},
				Route:       transit.Route{OperatorRef: "5", LineName: "18"},
				ScheduledAt: scheduledAt,
			},
		},
	}

	client := NewMockClient(source, time.Hour)

	set, err := client.Fetch(context.Background(), "36601")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Degraded {
		t.Error("mock feed should never degrade on a healthy store")
	}
	if len(set.Predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(set.Predictions))
	}

	prediction := set.Predictions[0]
	if prediction.LineName != "18" || prediction.OperatorRef != "5" {
		t.Errorf("prediction must mirror the scheduled line, got %+v", prediction)
	}
	if !strings.HasPrefix(prediction.VehicleRef, "MOCK-") {
		t.Errorf("unexpected vehicle ref %q", prediction.VehicleRef)
	}

	drift := prediction.ExpectedArrival.Sub(scheduledAt)
	if drift < -3*time.Minute || drift >= 5*time.Minute {
		t.Errorf("drift %v outside the mock's bounds", drift)
	}
}

func TestMockClientStableOffsets(t *testing.T) {
	if tripOffset("trip-a") != tripOffset("trip-a") {
		t.Error("offsets must be deterministic per trip")
	}
}

func TestMockClientDegradesOnStoreError(t *testing.T) {
	source := &fakeCandidateSource{err: errors.New("down")}
	client := NewMockClient(source, time.Hour)

	set, err := client.Fetch(context.Background(), "36601")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.Degraded {
		t.Error("expected a degraded set")
	}
}
