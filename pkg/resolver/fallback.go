package resolver

import (
	"context"

	"github.com/nextride/nextride/pkg/transit"
)

// FallbackClient chains two prediction sources. The secondary is only
// consulted when the primary comes back degraded with nothing usable, which
// keeps the cheaper feed in reserve for outages instead of doubling traffic
// on every request.
type FallbackClient struct {
	Primary   PredictionClient
	Secondary PredictionClient
}

func (f *FallbackClient) Fetch(ctx context.Context, stopCode string) (transit.PredictionSet, error) {
	primary, err := f.Primary.Fetch(ctx, stopCode)
	if err == nil && (!primary.Degraded || len(primary.Predictions) > 0) {
		return primary, nil
	}

	if f.Secondary == nil {
		return primary, err
	}

	secondary, secondaryErr := f.Secondary.Fetch(ctx, stopCode)
	if secondaryErr != nil || len(secondary.Predictions) == 0 {
		// Both feeds are down. Report the board as degraded rather than
		// failing the request.
		return transit.PredictionSet{Degraded: true}, nil
	}

	// A board served off the fallback feed still counts as degraded so
	// consumers know the primary source was unavailable.
	secondary.Degraded = true
	return secondary, nil
}
