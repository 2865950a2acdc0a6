package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

type metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	breakerState  prometheus.Gauge
	lastProducts  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_fetch_total",
				Help: "Catalog loads by origin (store, remote) and outcome",
			},
			[]string{"origin", "outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_remote_fetch_duration_seconds",
				Help:    "Duration of remote assortment downloads in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"outcome"},
		),
		breakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_fetch_circuit_breaker_state",
				Help: "State of the remote fetch circuit breaker (0=closed, 1=half-open, 2=open)",
			},
		),
		lastProducts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_remote_fetch_products",
				Help: "Eligible products in the last successful remote fetch",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.fetchTotal, m.fetchDuration, m.breakerState, m.lastProducts)
	}
	return m
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
