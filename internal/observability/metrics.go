// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incontro_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "incontro_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// InteractionToggles counts like/heart toggles by kind and direction.
	InteractionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incontro_interaction_toggles_total",
		Help: "Total number of interaction toggles by kind and direction",
	}, []string{"kind", "direction"})

	// ChatRequestOutcomes counts chat request operations by outcome.
	ChatRequestOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incontro_chat_request_outcomes_total",
		Help: "Total number of chat request operations by outcome",
	}, []string{"outcome"})

	// PostsCreated counts feed posts accepted by the daily guard.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incontro_posts_created_total",
		Help: "Total number of feed posts created",
	})

	// PresenceHeartbeats counts presence heartbeat refreshes.
	PresenceHeartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incontro_presence_heartbeats_total",
		Help: "Total number of presence heartbeats received",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordToggle increments the interaction toggle counter.
func RecordToggle(kind string, removed bool) {
	direction := "on"
	if removed {
		direction = "off"
	}
	InteractionToggles.WithLabelValues(kind, direction).Inc()
}

// RecordChatRequestOutcome increments the chat request outcome counter.
func RecordChatRequestOutcome(outcome string) {
	ChatRequestOutcomes.WithLabelValues(outcome).Inc()
}
