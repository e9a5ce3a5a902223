package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/nextride/nextride/pkg/cache"
	"github.com/nextride/nextride/pkg/transit"
	"github.com/nextride/nextride/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"
)

// ScheduleStore is the schedule lookup surface the coordinator needs. The
// postgres-backed implementation lives in pkg/schedulestore.
type ScheduleStore interface {
	GetStop(ctx context.Context, stopCode string) (*transit.Stop, error)
	FindCandidates(ctx context.Context, stopCode string, asOf time.Time, window time.Duration) ([]transit.ScheduleCandidate, error)
	RouteSetForStop(ctx context.Context, stopCode string) (transit.RouteSet, error)
}

// PredictionClient fetches live predictions for a stop. Implementations must
// degrade instead of erroring when the upstream feed is unhealthy.
type PredictionClient interface {
	Fetch(ctx context.Context, stopCode string) (transit.PredictionSet, error)
}

type Options struct {
	CacheTTL   time.Duration
	Window     time.Duration
	Tolerance  time.Duration
	MaxResults int
}

// Coordinator answers arrival board requests. Identical concurrent requests
// collapse onto a single resolution, and successful boards are cached for the
// configured TTL. Failures are never cached.
type Coordinator struct {
	Store   ScheduleStore
	Live    PredictionClient
	Options Options

	cache   *cache.ResultCache
	group   singleflight.Group
	metrics *Metrics
}

func NewCoordinator(store ScheduleStore, live PredictionClient, opts Options, resultCache *cache.ResultCache, metrics *Metrics) *Coordinator {
	return &Coordinator{
		Store:   store,
		Live:    live,
		Options: opts,

		cache:   resultCache,
		metrics: metrics,
	}
}

func cacheKey(stopCode string, routeFilter string) string {
	return fmt.Sprintf("board/%s/%s", stopCode, routeFilter)
}

// Resolve returns the arrival board for a stop, optionally filtered to a
// single line number. transit.ErrStopNotFound and
// transit.StoreUnavailableError are the only error outcomes; live feed
// trouble surfaces as a degraded board instead.
func (c *Coordinator) Resolve(ctx context.Context, stopCode string, routeFilter string, now time.Time) (*transit.StopBoard, error) {
	key := cacheKey(stopCode, routeFilter)

	if c.cache != nil {
		if board, found := c.cache.GetBoard(ctx, key); found {
			c.metrics.cacheHit()
			return board, nil
		}
		c.metrics.cacheMiss()
	}

	// The leader runs detached from any one caller's context so a waiter
	// hanging up cannot abort a resolution other waiters still want.
	leaderCtx := context.WithoutCancel(ctx)

	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.resolve(leaderCtx, stopCode, routeFilter, now)
	})
	if shared {
		c.metrics.singleflightJoin()
	}
	if err != nil {
		return nil, err
	}

	return result.(*transit.StopBoard), nil
}

func (c *Coordinator) resolve(ctx context.Context, stopCode string, routeFilter string, now time.Time) (*transit.StopBoard, error) {
	// Confirm the stop exists before anything is fetched. An unknown stop
	// must not generate upstream traffic.
	if _, err := c.Store.GetStop(ctx, stopCode); err != nil {
		return nil, err
	}

	var (
		candidates    []transit.ScheduleCandidate
		routeSet      transit.RouteSet
		scheduleError error

		predictions transit.PredictionSet
	)

	var waitGroup conc.WaitGroup
	waitGroup.Go(func() {
		candidates, scheduleError = c.Store.FindCandidates(ctx, stopCode, now, c.Options.Window)
		if scheduleError != nil {
			return
		}
		routeSet, scheduleError = c.Store.RouteSetForStop(ctx, stopCode)
	})
	waitGroup.Go(func() {
		var err error
		predictions, err = c.Live.Fetch(ctx, stopCode)
		if err != nil {
			// Prediction clients degrade rather than fail. Treat a
			// misbehaving implementation the same way.
			log.Error().Err(err).Str("stop", stopCode).Msg("Prediction client returned an error")
			predictions = transit.PredictionSet{Degraded: true}
		}
	})
	waitGroup.Wait()

	if scheduleError != nil {
		return nil, scheduleError
	}

	if routeFilter != "" {
		util.InPlaceFilter(&candidates, func(candidate transit.ScheduleCandidate) bool {
			return candidate.Route.LineName == routeFilter
		})
		util.InPlaceFilter(&predictions.Predictions, func(prediction transit.LivePrediction) bool {
			return prediction.LineName == routeFilter
		})
	}

	reconciler := Reconciler{
		Tolerance:  c.Options.Tolerance,
		MaxResults: c.Options.MaxResults,
	}
	outcome := reconciler.Reconcile(candidates, predictions.Predictions, routeSet)

	board := &transit.StopBoard{
		StopCode:    stopCode,
		Arrivals:    outcome.Arrivals,
		Degraded:    predictions.Degraded,
		GeneratedAt: now,
	}

	c.metrics.resolution(board.Degraded)
	c.metrics.unknownLiveLines(outcome.UnknownLines)

	if c.cache != nil {
		c.cache.SetBoard(ctx, cacheKey(stopCode, routeFilter), board)
	}

	return board, nil
}

// Stop exposes the stop lookup for the API layer without handing it the
// whole store.
func (c *Coordinator) Stop(ctx context.Context, stopCode string) (*transit.Stop, error) {
	return c.Store.GetStop(ctx, stopCode)
}
