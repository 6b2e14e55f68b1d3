package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decode_gate",
			Name:      "evaluations_total",
			Help:      "Total applicability evaluations, partitioned by resolved status.",
		},
		[]string{"status"},
	)

	experimentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decode_gate",
			Name:      "experiments_total",
			Help:      "Total decode attempts, partitioned by outcome status.",
		},
		[]string{"status"},
	)

	decodeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "decode_gate",
			Name:      "decode_seconds",
			Help:      "Decode attempt latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)
)

// Register attaches decode-gate collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		evaluationsTotal,
		experimentsTotal,
		decodeSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveEvaluation counts one applicability evaluation by status.
func ObserveEvaluation(status string) {
	evaluationsTotal.WithLabelValues(status).Inc()
}

// ObserveDecode records one decode attempt's outcome and latency.
func ObserveDecode(duration time.Duration, status string) {
	experimentsTotal.WithLabelValues(status).Inc()
	if duration < 0 {
		duration = 0
	}
	decodeSeconds.Observe(duration.Seconds())
}
