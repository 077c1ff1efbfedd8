// Package metrics supplies a Prometheus-backed poolshark.MetricsRecorder,
// grounded on the same client_golang instrumentation style the wider
// reference corpus uses. Install it with poolshark.SetMetrics once, early
// in a program's startup, against whichever prometheus.Registerer the
// program already exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/estokes/poolshark"
)

type promRecorder struct {
	hits              *prometheus.CounterVec
	misses            *prometheus.CounterVec
	admissionFailures *prometheus.CounterVec
	occupancy         *prometheus.GaugeVec
}

// NewPrometheus registers the pool instrumentation metrics against reg
// and returns a poolshark.MetricsRecorder backed by them.
func NewPrometheus(reg prometheus.Registerer) poolshark.MetricsRecorder {
	p := &promRecorder{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolshark",
			Name:      "hits_total",
			Help:      "Takes satisfied from a pool's recycled values.",
		}, []string{"pool"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolshark",
			Name:      "misses_total",
			Help:      "Takes that constructed a fresh empty value.",
		}, []string{"pool"}),
		admissionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolshark",
			Name:      "admission_failures_total",
			Help:      "Releases that could not be returned to their pool.",
		}, []string{"pool", "reason"}),
		occupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "poolshark",
			Name:      "occupancy",
			Help:      "Current recycled-value count per pool.",
		}, []string{"pool"}),
	}
	reg.MustRegister(p.hits, p.misses, p.admissionFailures, p.occupancy)
	return p
}

func (p *promRecorder) Hit(pool string)  { p.hits.WithLabelValues(pool).Inc() }
func (p *promRecorder) Miss(pool string) { p.misses.WithLabelValues(pool).Inc() }

func (p *promRecorder) AdmissionFailure(pool, reason string) {
	p.admissionFailures.WithLabelValues(pool, reason).Inc()
}

func (p *promRecorder) Occupancy(pool string, n int) {
	p.occupancy.WithLabelValues(pool).Set(float64(n))
}
