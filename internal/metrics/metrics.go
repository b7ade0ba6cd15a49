// Package metrics exposes Prometheus instrumentation for the worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsProcessed counts jobs that reached the done state.
	JobsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewd_jobs_processed_total",
		Help: "Number of analysis jobs processed to completion.",
	})

	// JobFailures counts processing attempts that failed and returned the
	// job to the queue.
	JobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewd_job_failures_total",
		Help: "Number of failed processing attempts.",
	})

	// Findings counts produced findings by severity.
	Findings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewd_findings_total",
		Help: "Number of findings produced, by severity.",
	}, []string{"severity"})

	// JobDuration observes wall-clock processing time per job.
	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reviewd_job_duration_seconds",
		Help:    "Time spent processing one job.",
		Buckets: prometheus.DefBuckets,
	})
)
