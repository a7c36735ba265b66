// Package metrics holds the Prometheus collectors for predictions and the
// HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/gradepath/internal/advisor"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradepath_predictions_total",
			Help: "Predictions made, by performance tier",
		},
		[]string{"tier"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradepath_prediction_errors_total",
			Help: "Failed predictions, by predictor",
		},
		[]string{"predictor"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradepath_prediction_duration_seconds",
			Help:    "Time spent in the grade predictor",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"predictor"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradepath_recommendations_total",
			Help: "Recommendations emitted, by category",
		},
		[]string{"category"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradepath_api_requests_total",
			Help: "HTTP API requests, by route and status code",
		},
		[]string{"route", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradepath_api_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"route", "method"},
	)
)

// RecordPrediction records a successful prediction and its assessment.
func RecordPrediction(predictor string, elapsed time.Duration, a advisor.Assessment) {
	PredictionDuration.WithLabelValues(predictor).Observe(elapsed.Seconds())
	PredictionsTotal.WithLabelValues(a.Tier.String()).Inc()
	RecordRecommendations(a.Recommendations)
}

// RecordPredictionError records a failed predictor call.
func RecordPredictionError(predictor string, elapsed time.Duration) {
	PredictionDuration.WithLabelValues(predictor).Observe(elapsed.Seconds())
	PredictionErrors.WithLabelValues(predictor).Inc()
}

func RecordRecommendations(entries []advisor.Entry) {
	for _, e := range entries {
		RecommendationsTotal.WithLabelValues(e.Category).Inc()
	}
}

func RecordAPIRequest(route, method string, status int, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
