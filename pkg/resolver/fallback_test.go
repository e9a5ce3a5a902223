package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/nextride/nextride/pkg/transit"
)

func TestFallbackSecondaryNotConsultedWhenPrimaryHealthy(t *testing.T) {
	primary := &fakeClient{
		set: transit.PredictionSet{
			Predictions: []transit.LivePrediction{
				testPrediction("5", "18", "1", testBase.Add(5*time.Minute)),
			},
		},
	}
	secondary := &fakeClient{}

	client := &FallbackClient{Primary: primary, Secondary: secondary}

	set, err := client.Fetch(context.Background(), "36601")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Degraded {
		t.Error("healthy primary must not be degraded")
	}
	if secondary.fetchCalls.Load() != 0 {
		t.Error("secondary feed must stay in reserve")
	}
}

func TestFallbackServesSecondaryAsDegraded(t *testing.T) {
	primary := &fakeClient{set: transit.PredictionSet{Degraded: true}}
	secondary := &fakeClient{
		set: transit.PredictionSet{
			Predictions: []transit.LivePrediction{
				testPrediction("5", "18", "1", testBase.Add(5*time.Minute)),
			},
		},
	}

	client := &FallbackClient{Primary: primary, Secondary: secondary}

	set, err := client.Fetch(context.Background(), "36601")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.Degraded {
		t.Error("a board built off the fallback feed must stay degraded")
	}
	if len(set.Predictions) != 1 {
		t.Errorf("expected the secondary predictions, got %d", len(set.Predictions))
	}
}

func TestFallbackBothFeedsDown(t *testing.T) {
	primary := &fakeClient{set: transit.PredictionSet{Degraded: true}}
	secondary := &fakeClient{set: transit.PredictionSet{Degraded: true}}

	client := &FallbackClient{Primary: primary, Secondary: secondary}

	set, err := client.Fetch(context.Background(), "36601")
	if err != nil {
		t.Fatalf("degraded feeds must not error: %v", err)
	}
	if !set.Degraded || len(set.Predictions) != 0 {
		t.Errorf("expected an empty degraded set, got %+v", set)
	}
}
