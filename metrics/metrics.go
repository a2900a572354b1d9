// Package metrics instruments the coordinator and pool with Prometheus
// collectors. It is optional: a caller that never references this
// package pays nothing, since coordinate.Coordinate itself has no
// metrics hooks baked in — instrumentation wraps the Sink and Work
// functions the caller already supplies.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/clemson-cal/gridiron-go/automaton"
	"github.com/clemson-cal/gridiron-go/coordinate"
)

// Collectors bundles the gauges/counters/histograms this package
// registers. Callers embed it in their own registry via Register.
type Collectors struct {
	StageDuration    prometheus.Histogram
	MessagesRouted   prometheus.Counter
	MessagesForwarded prometheus.Counter
	TasksCompleted   prometheus.Counter
	PoolQueueDepth   prometheus.Gauge
}

// NewCollectors builds a fresh Collectors set. namespace/subsystem follow
// the usual Prometheus naming convention (e.g. "gridiron", "coordinator").
func NewCollectors(namespace, subsystem string) *Collectors {
	return &Collectors{
		StageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of a single coordinate.Coordinate call.",
			Buckets:   prometheus.DefBuckets,
		}),
		MessagesRouted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_routed_total",
			Help:      "Outgoing messages delivered to a co-located task without touching the wire.",
		}),
		MessagesForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_forwarded_total",
			Help:      "Outgoing messages handed to the communicator for off-rank delivery.",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_completed_total",
			Help:      "Tasks that reached eligibility and were pushed to the sink.",
		}),
		PoolQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pool_inflight_jobs",
			Help:      "Jobs dispatched to the worker pool that have not yet completed.",
		}),
	}
}

// Register registers every collector with reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, coll := range []prometheus.Collector{
		c.StageDuration, c.MessagesRouted, c.MessagesForwarded, c.TasksCompleted, c.PoolQueueDepth,
	} {
		if err := reg.Register(coll); err != nil {
			return err
		}
	}
	return nil
}

// WrapWork counts every routing decision w makes, tallying MessagesRouted
// when the destination rank matches self and MessagesForwarded otherwise
// — both totals use the same call site, since the only place that
// decides locality is the work function itself. A standalone function
// rather than a method: Go methods cannot carry their own type
// parameters.
func WrapWork[K comparable](c *Collectors, self int, w coordinate.Work[K]) coordinate.Work[K] {
	return func(key K) int {
		rank := w(key)
		if rank == self {
			c.MessagesRouted.Inc()
		} else {
			c.MessagesForwarded.Inc()
		}
		return rank
	}
}

// WrapSink counts every task pushed to sink before forwarding it on.
func WrapSink[K comparable, M, V any](c *Collectors, sink coordinate.Sink[K, M, V]) coordinate.Sink[K, M, V] {
	return func(a automaton.Automaton[K, M, V]) {
		c.TasksCompleted.Inc()
		sink(a)
	}
}

// ObserveStage records the elapsed duration since start as one stage's
// wall-clock time.
func (c *Collectors) ObserveStage(start time.Time) {
	c.StageDuration.Observe(time.Since(start).Seconds())
}
