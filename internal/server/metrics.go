package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeCorrect   = "correct"
	outcomeIncorrect = "incorrect"
	outcomeAuthoring = "authoring_error"
	outcomeOK        = "ok"
)

type metrics struct {
	evaluations *prometheus.CounterVec
	duration    prometheus.Histogram
	previews    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "unitgrade_evaluations_total",
			Help: "Total evaluations by comparison mode and outcome",
		}, []string{"comparison", "outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "unitgrade_evaluation_duration_seconds",
			Help:    "Evaluation latency",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		previews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "unitgrade_previews_total",
			Help: "Total previews by outcome",
		}, []string{"outcome"}),
	}
}
