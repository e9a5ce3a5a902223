package siri_sm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nextride/nextride/pkg/transit"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Client is the production SIRI-SM stop monitoring client. The upstream is
// reachable only from whitelisted IPs and has no documented concurrency
// guarantee, so outbound calls are bounded by a fixed-size pool - excess
// callers queue instead of fanning out.
type Client struct {
	endpoint string
	userKey  string

	timeout    time.Duration
	httpClient *http.Client
	pool       *semaphore.Weighted
}

func NewClient(endpoint string, userKey string, timeout time.Duration, poolSize int) *Client {
	if poolSize <= 0 {
		poolSize = 1
	}

	return &Client{
		endpoint: endpoint,
		userKey:  userKey,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pool: semaphore.NewWeighted(int64(poolSize)),
	}
}

// Fetch requests realtime predictions for one stop. It never fails the
// request: timeouts, connection errors and malformed responses all degrade
// to an empty set with Degraded set.
func (c *Client) Fetch(ctx context.Context, stopCode string) (transit.PredictionSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.pool.Acquire(ctx, 1); err != nil {
		log.Warn().Str("stop", stopCode).Msg("Timed out waiting for an upstream connection slot")
		return transit.PredictionSet{Degraded: true}, nil
	}
	defer c.pool.Release(1)

	var siri *SiriSM

	operation := func() error {
		response, err := c.get(ctx, stopCode)
		if err != nil {
			return err
		}

		siri = response
		return nil
	}

	retryPolicy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(250*time.Millisecond),
		backoff.WithMaxElapsedTime(c.timeout),
	), ctx)

	if err := backoff.Retry(operation, retryPolicy); err != nil {
		log.Warn().Err(err).Str("stop", stopCode).Msg("Realtime fetch failed, degrading to schedule only")
		return transit.PredictionSet{Degraded: true}, nil
	}

	return transit.PredictionSet{Predictions: siri.Predictions()}, nil
}

func (c *Client) get(ctx context.Context, stopCode string) (*SiriSM, error) {
	requestURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}

	query := requestURL.Query()
	query.Set("Key", c.userKey)
	query.Set("MonitoringRef", stopCode)
	requestURL.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/xml")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", response.StatusCode)
	}

	return ParseXML(response.Body)
}
