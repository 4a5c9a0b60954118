package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend call latency by endpoint and outcome.
type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics registers the backend histogram on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_request_duration_seconds",
				Help:    "Latency of calls to the document-analysis backend.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"endpoint", "outcome"},
		),
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(endpoint string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	m.duration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
}
