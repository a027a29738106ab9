package pixelvoronoi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records solver timings. A nil *Metrics records nothing.
type Metrics struct {
	phaseDuration *prometheus.HistogramVec
	solves        *prometheus.CounterVec
	unassigned    *prometheus.GaugeVec
}

// NewMetrics creates solver metrics & registers them with reg (if not nil).
// It panics if they are already registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pixelvoronoi",
			Name:      "phase_duration_seconds",
			Help:      "Time spent in each phase of a solve.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy", "phase"}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixelvoronoi",
			Name:      "solves_total",
			Help:      "Completed solves.",
		}, []string{"strategy"}),
		unassigned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pixelvoronoi",
			Name:      "unassigned_pixels",
			Help:      "Pixels left without a site by the last solve.",
		}, []string{"strategy"}),
	}

	if reg != nil {
		reg.MustRegister(m.phaseDuration, m.solves, m.unassigned)
	}
	return m
}

// observePhase records how long a phase took
func (m *Metrics) observePhase(s Strategy, phase string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(string(s), phase).Observe(elapsed.Seconds())
}

// solved records a finished solve
func (m *Metrics) solved(s Strategy, unassigned int) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(string(s)).Inc()
	m.unassigned.WithLabelValues(string(s)).Set(float64(unassigned))
}
