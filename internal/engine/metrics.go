package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seqops/helix/internal/model"
)

var (
	jobsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_jobs_submitted_total",
			Help: "Total number of jobs accepted for execution.",
		},
		[]string{"pipeline"},
	)

	jobsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_jobs_finished_total",
			Help: "Total number of jobs that reached a terminal state.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(jobsSubmitted)
	prometheus.MustRegister(jobsFinished)

	// Pre-initialize label combinations so they appear in /metrics with value
	// 0 from startup, rather than only after first observation.
	jobsFinished.WithLabelValues(model.StatusCompleted)
	jobsFinished.WithLabelValues(model.StatusFailed)
}
