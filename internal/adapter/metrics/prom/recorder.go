package prom

import (
	"actionforge/internal/app/ports"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "actionforge"

// Recorder exports action outcomes as Prometheus counters and forwards every
// call to Next when set, so the in-memory KPI view stays in step.
type Recorder struct {
	Next ports.ActionMetrics

	success     *prometheus.CounterVec
	conflict    prometheus.Counter
	failure     prometheus.Counter
	invalidated prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer, next ports.ActionMetrics) *Recorder {
	r := &Recorder{
		Next: next,
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "success_total",
			Help:      "Successful engine operations by operation name",
		}, []string{"operation"}),
		conflict: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "conflicts_total",
			Help:      "Operations rejected by an optimistic version conflict",
		}),
		failure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "failures_total",
			Help:      "Operations that failed for any other reason",
		}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "equipment",
			Name:      "invalidations_total",
			Help:      "Equipment invalidations seen while processing queues",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.success, r.conflict, r.failure, r.invalidated)
	}
	return r
}

func (r *Recorder) RecordSuccess(operation string) {
	r.success.WithLabelValues(operation).Inc()
	if r.Next != nil {
		r.Next.RecordSuccess(operation)
	}
}

func (r *Recorder) RecordInvalidated(count int) {
	if count > 0 {
		r.invalidated.Add(float64(count))
	}
	if r.Next != nil {
		r.Next.RecordInvalidated(count)
	}
}

func (r *Recorder) RecordConflict() {
	r.conflict.Inc()
	if r.Next != nil {
		r.Next.RecordConflict()
	}
}

func (r *Recorder) RecordFailure() {
	r.failure.Inc()
	if r.Next != nil {
		r.Next.RecordFailure()
	}
}
