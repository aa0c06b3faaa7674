package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	PredictionsTotal    *prometheus.CounterVec
	PredictionDuration  prometheus.Histogram
	PredictionsInFlight prometheus.Gauge

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	ExtractionsTotal    *prometheus.CounterVec
	TargetInjectedTotal prometheus.Counter
	CandidatesReturned  prometheus.Histogram
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		PredictionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordpredict_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"status"},
		),
		PredictionDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordpredict_prediction_duration_seconds",
				Help:    "End-to-end prediction duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		PredictionsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordpredict_predictions_in_flight",
				Help: "Number of predictions currently being processed",
			},
		),

		LLMRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordpredict_llm_requests_total",
				Help: "Total number of model inference calls",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordpredict_llm_request_duration_seconds",
				Help:    "Model inference call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		ExtractionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordpredict_extractions_total",
				Help: "Successful completion extractions by the locator that matched",
			},
			[]string{"locator"},
		),
		TargetInjectedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "wordpredict_target_injected_total",
				Help: "Completions that did not contain the target word",
			},
		),
		CandidatesReturned: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordpredict_candidates_returned",
				Help:    "Number of candidates in successful responses",
				Buckets: []float64{1, 5, 10, 20, 30, 39, 40},
			},
		),
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordPrediction(status string, duration time.Duration) {
	m.PredictionsTotal.WithLabelValues(status).Inc()
	m.PredictionDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordExtraction(locator string, injected bool, candidates int) {
	m.ExtractionsTotal.WithLabelValues(locator).Inc()
	if injected {
		m.TargetInjectedTotal.Inc()
	}
	m.CandidatesReturned.Observe(float64(candidates))
}

func (m *Metrics) IncInFlight() {
	m.PredictionsInFlight.Inc()
}

func (m *Metrics) DecInFlight() {
	m.PredictionsInFlight.Dec()
}
