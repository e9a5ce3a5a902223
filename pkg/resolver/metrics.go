package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Resolutions      prometheus.Counter
	Degraded         prometheus.Counter
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	SingleflightJoin prometheus.Counter
	UnknownLiveLines prometheus.Counter
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		Resolutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "nextride_resolutions_total",
			Help: "Completed arrival board resolutions.",
		}),
		Degraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "nextride_degraded_resolutions_total",
			Help: "Resolutions served without live data.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "nextride_cache_hits_total",
			Help: "Board lookups answered from the result cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "nextride_cache_misses_total",
			Help: "Board lookups that had to compute a fresh result.",
		}),
		SingleflightJoin: factory.NewCounter(prometheus.CounterOpts{
			Name: "nextride_singleflight_joins_total",
			Help: "Resolutions that attached to an in-flight computation.",
		}),
		UnknownLiveLines: factory.NewCounter(prometheus.CounterOpts{
			Name: "nextride_unknown_live_lines_total",
			Help: "Live predictions dropped because their line never serves the stop.",
		}),
	}
}

// The counters are nil-receiver safe so a Coordinator without metrics wired
// (tests, tooling) costs nothing.

func (m *Metrics) resolution(degraded bool) {
	if m == nil {
		return
	}
	m.Resolutions.Inc()
	if degraded {
		m.Degraded.Inc()
	}
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) cacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) singleflightJoin() {
	if m == nil {
		return
	}
	m.SingleflightJoin.Inc()
}

func (m *Metrics) unknownLiveLines(count int) {
	if m == nil || count == 0 {
		return
	}
	m.UnknownLiveLines.Add(float64(count))
}
