// Package metrics defines the prometheus collectors instrumenting the
// orchestration core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles all collectors. Construct once per process via New and
// inject where needed.
type Metrics struct {
	// TaskDuration observes end-to-end task execution latency.
	TaskDuration *prometheus.HistogramVec

	// TasksTotal counts executed tasks by role and outcome.
	TasksTotal *prometheus.CounterVec

	// ToolCallsTotal counts tool adapter invocations by tool id and whether
	// the adapter degraded to an empty result.
	ToolCallsTotal *prometheus.CounterVec

	// ModelCallsTotal counts model completions by consumer and outcome.
	ModelCallsTotal *prometheus.CounterVec

	// AgentsLive tracks the current number of registered agents by status.
	AgentsLive *prometheus.GaugeVec
}

// New registers the collectors with reg. A nil registerer falls back to a
// private throwaway registry (null object), which keeps instrumented code
// free of nil checks in tests and examples.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		TaskDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swarmdeck_task_duration_seconds",
			Help:    "Histogram of task execution latencies.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"role", "outcome"}),

		TasksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "swarmdeck_tasks_total",
			Help: "Total number of executed tasks.",
		}, []string{"role", "outcome"}),

		ToolCallsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "swarmdeck_tool_calls_total",
			Help: "Total number of tool adapter invocations.",
		}, []string{"tool", "outcome"}), // outcomes: ok, empty

		ModelCallsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "swarmdeck_model_calls_total",
			Help: "Total number of model completions.",
		}, []string{"consumer", "outcome"}), // consumers: executor, command, coordinator

		AgentsLive: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "swarmdeck_agents",
			Help: "Current number of registered agents by status.",
		}, []string{"status"}),
	}
}
