package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntakeSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of intake submissions by outcome",
		},
		[]string{"outcome"},
	)

	IntakeSubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_submit_duration_seconds",
			Help:    "Duration of intake submissions in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	IntakeAdvisoryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_advisory_failures_total",
			Help: "Advisory side effects that failed after a durable write",
		},
		[]string{"effect"},
	)

	WizardOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_wizard_operations_total",
			Help: "Wizard operations by kind and result",
		},
		[]string{"operation", "result"},
	)

	WizardSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_wizard_sessions_active",
			Help: "Wizard sessions currently held in memory",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)

// Intake records gateway outcomes on the package collectors.
type Intake struct{}

func (Intake) ObserveSubmission(outcome string, d time.Duration) {
	IntakeSubmissions.WithLabelValues(outcome).Inc()
	IntakeSubmitDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (Intake) AdvisoryFailed(effect string) {
	IntakeAdvisoryFailures.WithLabelValues(effect).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveSubmission(string, time.Duration) {}
func (Nop) AdvisoryFailed(string)                   {}
