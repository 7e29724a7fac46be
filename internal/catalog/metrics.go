package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a Catalog.
//
//   - projectdb_catalog_cache_hits_total - lookups served from the cache
//   - projectdb_catalog_cache_misses_total - lookups that had to open the file
//   - projectdb_catalog_open_projects - handles currently cached
//   - projectdb_catalog_open_duration_seconds{op} - time spent in open/create
type Metrics struct {
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	OpenProjects     prometheus.Gauge
	OpenDuration     *prometheus.HistogramVec
}

// newMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "projectdb_catalog_cache_hits_total",
			Help: "Total number of project lookups served from the cache",
		}),
		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "projectdb_catalog_cache_misses_total",
			Help: "Total number of project lookups that opened the project file",
		}),
		OpenProjects: factory.NewGauge(prometheus.GaugeOpts{
			Name: "projectdb_catalog_open_projects",
			Help: "Number of project handles currently cached",
		}),
		OpenDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "projectdb_catalog_open_duration_seconds",
			Help:    "Duration of opening or creating a project file",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"op"}),
	}
}
