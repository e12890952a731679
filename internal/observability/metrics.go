package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by command.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaclone_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by key family and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaclone_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})

	// DatabaseQueryLatency records repository call latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "instaclone_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthAttempts counts register and login outcomes.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaclone_auth_attempts_total",
		Help: "Register and login attempts by action and outcome",
	}, []string{"action", "outcome"})

	// Uploads counts image intake results (saved, empty, too_large, bad_type, error).
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaclone_uploads_total",
		Help: "Image uploads by result",
	}, []string{"result"})

	// UploadBytes sums the size of accepted uploads.
	UploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instaclone_upload_bytes_total",
		Help: "Total bytes written by accepted uploads",
	})

	// Engagement counts post, comment, like and unlike writes.
	Engagement = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaclone_engagement_total",
		Help: "Content writes by kind",
	}, []string{"kind"})

	// RateLimitDecisions counts limiter outcomes per policy name.
	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instaclone_rate_limit_decisions_total",
		Help: "Rate limiter decisions by policy and outcome",
	}, []string{"policy", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
