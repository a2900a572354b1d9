// Package pool is a minimal fixed-size worker pool with optional CPU
// affinity, used as the shared-memory execution backend for the Pooled
// executor. No attempt is made to schedule jobs intelligently: dispatch is
// plain round-robin, or direct-to-worker when a job names one.
//
// Adapted from original_source/src/thread_pool.rs.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package pool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/clemson-cal/gridiron-go/internal/debug"
	"github.com/clemson-cal/gridiron-go/sys"
)

// Job is a unit of work submitted to the pool. It must not retain
// references to caller state beyond what it needs — once spawned, a job
// runs independently of whoever called Spawn.
type Job = func()

type worker struct {
	jobs chan Job
	done chan struct{}

	// executed counts jobs this worker has run. Exposed to tests in this
	// package only (via Pool.executed), so round-robin distribution can be
	// verified against what the pool actually did rather than against the
	// test's own guess of which worker should get which job.
	executed atomic.Int64
}

// Pool is a fixed set of worker goroutines, each draining its own job
// channel until the channel is closed.
type Pool struct {
	workers []*worker
	current atomic.Uint64
	wg      sync.WaitGroup
}

// New creates a pool with min(n, sys.NumCPU()) workers. When pin is true
// and the platform supports it, worker i is pinned to core i (mod the
// number of cores); unsupported platforms silently fall back to unpinned
// scheduling.
func New(n int, pin bool) *Pool {
	if max := sys.NumCPU(); n > max {
		n = max
	}
	if n < 1 {
		n = 1
	}
	p := &Pool{workers: make([]*worker, n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		w := &worker{jobs: make(chan Job, 64), done: make(chan struct{})}
		p.workers[i] = w
		go p.run(w, i, pin)
	}
	return p
}

func (p *Pool) run(w *worker, idx int, pin bool) {
	defer p.wg.Done()
	defer close(w.done)
	if pin && sys.HaveAffinity() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		sys.PinCurrentThread(idx % sys.NumCPU())
	}
	for job := range w.jobs {
		w.executed.Add(1)
		job()
	}
}

// NumWorkers returns the number of worker goroutines in the pool.
func (p *Pool) NumWorkers() int { return len(p.workers) }

// executed returns how many jobs worker idx has actually run. Package-
// internal test hook only; see worker.executed.
func (p *Pool) executed(idx int) int64 { return p.workers[idx].executed.Load() }

// Spawn dispatches job to the next worker in round-robin order: if worker
// n got the last job, worker (n+1) % NumWorkers gets this one.
func (p *Pool) Spawn(job Job) {
	p.SpawnOn(-1, job)
}

// SpawnOn dispatches job to the worker at idx, without advancing the
// round-robin cursor, when idx >= 0. A negative idx behaves like Spawn:
// the job runs on the current round-robin worker, which then advances.
func (p *Pool) SpawnOn(idx int, job Job) {
	if idx < 0 {
		n := uint64(len(p.workers))
		cur := p.current.Add(1) - 1
		idx = int(cur % n)
	}
	debug.Assert(idx >= 0 && idx < len(p.workers), "pool: worker index out of range", idx)
	p.workers[idx].jobs <- job
}

// Close closes every worker's job channel and then waits for all worker
// goroutines to exit, in that order — closing first ensures no worker blocks
// forever waiting on a channel nobody will ever send to again.
func (p *Pool) Close() {
	for _, w := range p.workers {
		close(w.jobs)
	}
	p.wg.Wait()
}
