// Package monitoring holds the Prometheus collectors exported on /metrics.
package monitoring

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ActiveRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yatube_posts_created_total",
			Help: "Total number of posts created",
		},
	)

	PostsEdited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yatube_posts_edited_total",
			Help: "Total number of posts edited by their author",
		},
	)
)

// Collectors lists every collector in this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveRequests,
		PostsCreated,
		PostsEdited,
	}
}

// Register adds the collectors to reg. Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
