package poolshark

import "sync/atomic"

// MetricsRecorder is the instrumentation hook every pooling package
// reports through. The default is a complete no-op, so a program that
// never calls SetMetrics pays nothing for it beyond one interface-typed
// atomic load per operation; poolshark/metrics supplies a Prometheus-
// backed implementation for programs that want real numbers.
type MetricsRecorder interface {
	// Hit records a take that was satisfied from a pool.
	Hit(pool string)
	// Miss records a take that had to construct a fresh empty value.
	Miss(pool string)
	// AdmissionFailure records a release that could not be returned to
	// its pool, tagged with a short, stable reason.
	AdmissionFailure(pool, reason string)
	// Occupancy reports a pool's current recycled-value count.
	Occupancy(pool string, n int)
}

type noopMetrics struct{}

func (noopMetrics) Hit(string)                    {}
func (noopMetrics) Miss(string)                   {}
func (noopMetrics) AdmissionFailure(string, string) {}
func (noopMetrics) Occupancy(string, int)          {}

var metricsRecorder atomic.Value

func init() { metricsRecorder.Store(MetricsRecorder(noopMetrics{})) }

// SetMetrics installs the process-wide MetricsRecorder. Passing nil
// restores the no-op default.
func SetMetrics(r MetricsRecorder) {
	if r == nil {
		r = noopMetrics{}
	}
	metricsRecorder.Store(r)
}

// Metrics returns the currently installed MetricsRecorder.
func Metrics() MetricsRecorder {
	return metricsRecorder.Load().(MetricsRecorder)
}
