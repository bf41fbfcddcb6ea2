package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"realty-calc/finance"
)

// Metrics holds the prometheus collectors for calculator runs.
type Metrics struct {
	calculations  *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
	irrIterations prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realty_calc_calculations_total",
				Help: "Calculator runs by kind and result status",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "realty_calc_calculation_duration_seconds",
				Help:    "Time spent computing a result, cache hits excluded",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"kind"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realty_calc_cache_hits_total",
				Help: "Results served from the cache",
			},
			[]string{"kind"},
		),
		irrIterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "realty_calc_irr_iterations",
				Help:    "Newton-Raphson iterations per IRR solve",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 100, 1000},
			},
		),
	}

	reg.MustRegister(
		m.calculations,
		m.duration,
		m.cacheHits,
		m.irrIterations,
	)
	return m
}

func (m *Metrics) observe(kind string, status finance.Status, seconds float64) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(kind, string(status)).Inc()
	m.duration.WithLabelValues(kind).Observe(seconds)
}

func (m *Metrics) cacheHit(kind string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *Metrics) iterations(n int) {
	if m == nil {
		return
	}
	m.irrIterations.Observe(float64(n))
}
