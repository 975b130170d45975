// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupsTotal counts registration attempts by outcome.
	SignupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climateforum_signups_total",
		Help: "Total number of signup attempts by result",
	}, []string{"result"})

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climateforum_logins_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// PostsCreated counts new posts per category.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climateforum_posts_created_total",
		Help: "Total number of posts created by category",
	}, []string{"category"})

	// CommentsCreated counts new comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "climateforum_comments_created_total",
		Help: "Total number of comments created",
	})

	// ReactionToggles counts reaction toggles by resulting action.
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climateforum_reaction_toggles_total",
		Help: "Total number of reaction toggles by action",
	}, []string{"action"})

	// ReportsFiled counts moderation reports by target kind.
	ReportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "climateforum_reports_filed_total",
		Help: "Total number of moderation reports by target",
	}, []string{"target"})

	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "climateforum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
