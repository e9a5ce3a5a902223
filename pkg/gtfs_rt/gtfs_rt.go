package gtfs_rt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/nextride/nextride/pkg/transit"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/proto"
)

type scheduleInfo interface {
	StopIDsForCode(ctx context.Context, stopCode string) ([]string, error)
	RouteForTrip(ctx context.Context, tripID string) (*transit.Route, *transit.Trip, error)
}

// Client turns a GTFS-RT TripUpdates protobuf feed into live predictions.
// Some operators publish TripUpdates instead of exposing a SIRI endpoint -
// notably the weekend-only municipal feeds - so this client implements the
// same prediction contract as the SIRI one.
type Client struct {
	feedURL string

	timeout    time.Duration
	httpClient *http.Client
	store      scheduleInfo
}

func NewClient(feedURL string, timeout time.Duration, store scheduleInfo) *Client {
	return &Client{
		feedURL: feedURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		store: store,
	}
}

func (c *Client) Fetch(ctx context.Context, stopCode string) (transit.PredictionSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stopIDs, err := c.store.StopIDsForCode(ctx, stopCode)
	if err != nil {
		return transit.PredictionSet{Degraded: true}, nil
	}

	stopIDSet := map[string]struct{}{}
	for _, stopID := range stopIDs {
		stopIDSet[stopID] = struct{}{}
	}

	feed, err := c.fetchFeed(ctx)
	if err != nil {
		log.Warn().Err(err).Str("stop", stopCode).Msg("GTFS-RT fetch failed, degrading to schedule only")
		return transit.PredictionSet{Degraded: true}, nil
	}

	feedTimestamp := time.Now()
	if feed.Header != nil && feed.Header.Timestamp != nil {
		feedTimestamp = time.Unix(int64(feed.Header.GetTimestamp()), 0)
	}

	var predictions []transit.LivePrediction

	for _, entity := range feed.Entity {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		for _, stopTimeUpdate := range tripUpdate.GetStopTimeUpdate() {
			if _, ok := stopIDSet[stopTimeUpdate.GetStopId()]; !ok {
				continue
			}

			arrival := stopTimeUpdate.GetArrival()
			if arrival == nil || arrival.Time == nil {
				continue
			}

			route, trip, err := c.store.RouteForTrip(ctx, tripUpdate.GetTrip().GetTripId())
			if err != nil {
				// Feed references a trip the schedule does not know about
				continue
			}

			predictions = append(predictions, transit.LivePrediction{
				OperatorRef:     route.OperatorRef,
				LineName:        route.LineName,
				DirectionRef:    trip.DirectionRef,
				DestinationName: trip.Headsign,
				ExpectedArrival: time.Unix(arrival.GetTime(), 0),
				RecordedAt:      feedTimestamp,
				VehicleRef:      tripUpdate.GetVehicle().GetId(),
			})
		}
	}

	return transit.PredictionSet{Predictions: predictions}, nil
}

func (c *Client) fetchFeed(ctx context.Context) (*gtfs.FeedMessage, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	feed := gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, &feed); err != nil {
		return nil, err
	}

	return &feed, nil
}
