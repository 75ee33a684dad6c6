package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RequestTotal counts HTTP requests by method, endpoint and status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forecast",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Latency tracks request latency per endpoint.
	Latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forecast",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// PredictionCounter counts prediction requests by ticker and the model
	// version that served them (including the "cached" pseudo version).
	PredictionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forecast",
			Subsystem: "model",
			Name:      "prediction_requests_total",
			Help:      "Total prediction requests by ticker",
		},
		[]string{"ticker", "model_version"},
	)
)

// Register registers all forecast metrics exactly once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(RequestTotal, Latency, PredictionCounter)
	})
}
