package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	matchedRatio    *prometheus.HistogramVec
	matchTotal      *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcz",
			Subsystem: "worker",
			Name:      "analysis_process_total",
			Help:      "Total processed analyses by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gcz",
			Subsystem: "worker",
			Name:      "analysis_process_duration_seconds",
			Help:      "Analysis processing duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gcz",
			Subsystem: "worker",
			Name:      "analysis_process_in_flight",
			Help:      "Number of in-flight analysis jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gcz",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between analysis submission and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	matchedRatio := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gcz",
			Subsystem: "worker",
			Name:      "matched_materials_ratio",
			Help:      "Share of extracted materials matched to a catalog product.",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
		[]string{"service"},
	)

	matchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcz",
			Subsystem: "worker",
			Name:      "material_match_total",
			Help:      "Total material match outcomes by match type.",
		},
		[]string{"service", "match_type"},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag, matchedRatio, matchTotal)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		matchedRatio:    matchedRatio,
		matchTotal:      matchTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartAnalysis() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishAnalysis(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordMatch(service, matchType string) {
	m.matchTotal.WithLabelValues(service, matchType).Inc()
}

func (m *WorkerMetrics) ObserveMatchedRatio(service string, extracted, matched int) {
	if extracted <= 0 {
		return
	}
	m.matchedRatio.WithLabelValues(service).Observe(float64(matched) / float64(extracted))
}
