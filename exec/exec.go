// Package exec provides the three executor façades named in the system
// overview: Serial, Pooled, and Distributed. Each constructs the sink and
// collaborators coordinate.Coordinate needs and is otherwise a thin
// wrapper — the scheduling and routing logic lives entirely in
// coordinate.Coordinate.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package exec

import (
	"github.com/clemson-cal/gridiron-go/automaton"
	"github.com/clemson-cal/gridiron-go/coder"
	"github.com/clemson-cal/gridiron-go/comm"
	"github.com/clemson-cal/gridiron-go/coordinate"
	"github.com/clemson-cal/gridiron-go/pool"
)

// Serial runs a stage entirely inline on the calling goroutine, using the
// Null communicator. Every key must route to rank 0 — a work function
// that does not guarantee this is a programmer error.
func Serial[K comparable, M, V any](flow []automaton.Automaton[K, M, V], work coordinate.Work[K]) []V {
	var out []V
	sink := func(a automaton.Automaton[K, M, V]) {
		out = append(out, a.Value())
	}
	coordinate.Coordinate[K, M, V](flow, comm.Null{}, coder.Null[K, M]{}, work, sink)
	return out
}

// Pooled runs a stage on the calling goroutine but evaluates each
// eligible task's Value on a worker drawn from p, honoring WorkerHint
// when the task names one. Results arrive on the returned channel in
// completion order; the caller must drain exactly len(flow) values
// (every task observed this stage contributes exactly one) before the
// channel can be considered exhausted for this stage.
func Pooled[K comparable, M, V any](p *pool.Pool, flow []automaton.Automaton[K, M, V], work coordinate.Work[K]) <-chan V {
	out := make(chan V, len(flow))
	sink := func(a automaton.Automaton[K, M, V]) {
		job := func() { out <- a.Value() }
		if idx, ok := a.WorkerHint(); ok {
			p.SpawnOn(idx, job)
		} else {
			p.Spawn(job)
		}
	}
	coordinate.Coordinate[K, M, V](flow, comm.Null{}, coder.Null[K, M]{}, work, sink)
	return out
}

// Distributed runs a stage across real peers over cm, using cdr to
// encode/decode messages that cross the wire. p chooses whether a task's
// Value runs inline or on a worker pool; pass a nil p to always run
// inline.
func Distributed[K comparable, M, V any](
	cm comm.Communicator,
	cdr coder.Coder[K, M],
	p *pool.Pool,
	flow []automaton.Automaton[K, M, V],
	work coordinate.Work[K],
) <-chan V {
	out := make(chan V, len(flow))
	sink := func(a automaton.Automaton[K, M, V]) {
		if p == nil {
			out <- a.Value()
			return
		}
		job := func() { out <- a.Value() }
		if idx, ok := a.WorkerHint(); ok {
			p.SpawnOn(idx, job)
		} else {
			p.Spawn(job)
		}
	}
	coordinate.Coordinate[K, M, V](flow, cm, cdr, work, sink)
	return out
}
