// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TransitionJoined      = "joined"
	TransitionReactivated = "reactivated"
	TransitionLeft        = "left"
	TransitionUpdated     = "updated"
)

// CommitmentTransitions counts lifecycle state changes.
var CommitmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "askesis",
	Subsystem: "commitment",
	Name:      "transitions_total",
	Help:      "Total commitment lifecycle transitions by kind.",
}, []string{"transition"})

// LogRecords counts daily log upserts by completion outcome.
var LogRecords = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "askesis",
	Subsystem: "log",
	Name:      "records_total",
	Help:      "Total daily log records by completed flag.",
}, []string{"completed"})

var ProgressQueries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "askesis",
	Subsystem: "progress",
	Name:      "queries_total",
	Help:      "Total progress aggregation queries.",
})

// HTTPRequestDuration tracks handler latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "askesis",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method, route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

func RecordTransition(transition string) {
	CommitmentTransitions.WithLabelValues(transition).Inc()
}

func RecordLog(completed bool) {
	LogRecords.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

func ObserveRequest(method string, route string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
