// SPDX-License-Identifier: MIT

package hull

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pyramid kinds used as metric labels.
const (
	PyramidRecursive = "recursive"
	PyramidStored    = "stored"
)

// Metrics holds engine counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	facets    prometheus.Counter
	pyramids  *prometheus.CounterVec
	simplices prometheus.Counter
	flushes   prometheus.Counter
	retries   prometheus.Counter
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		facets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cone",
			Subsystem: "hull",
			Name:      "facets_created_total",
			Help:      "Facets created by Fourier–Motzkin steps and pyramids",
		}),
		pyramids: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cone",
			Subsystem: "hull",
			Name:      "pyramids_total",
			Help:      "Pyramids processed, by kind",
		}, []string{"kind"}),
		simplices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cone",
			Subsystem: "hull",
			Name:      "simplices_evaluated_total",
			Help:      "Simplices evaluated from the buffer",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cone",
			Subsystem: "hull",
			Name:      "eval_flushes_total",
			Help:      "Evaluation buffer flushes",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cone",
			Subsystem: "hull",
			Name:      "overflow_retries_total",
			Help:      "Computations restarted with a wider integer width",
		}),
	}
	for _, c := range []prometheus.Collector{m.facets, m.pyramids, m.simplices, m.flushes, m.retries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) addFacets(n int) {
	if m != nil && n > 0 {
		m.facets.Add(float64(n))
	}
}

func (m *Metrics) addPyramid(kind string) {
	if m != nil {
		m.pyramids.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) addSimplices(n int) {
	if m != nil && n > 0 {
		m.simplices.Add(float64(n))
	}
}

func (m *Metrics) addFlush() {
	if m != nil {
		m.flushes.Inc()
	}
}

// OverflowRetry records a restart with a wider width.
func (m *Metrics) OverflowRetry() {
	if m != nil {
		m.retries.Inc()
	}
}
