package pool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRoundRobinEvenDistribution(t *testing.T) {
	p := New(4, false)
	defer p.Close()

	var wg sync.WaitGroup
	wg.Add(16)
	for i := 0; i < 16; i++ {
		p.Spawn(func() {
			wg.Done()
		})
	}
	wg.Wait()

	for idx := 0; idx < p.NumWorkers(); idx++ {
		if got := p.executed(idx); got != 4 {
			t.Fatalf("worker %d executed %d jobs, want 4", idx, got)
		}
	}
}

func TestSpawnOnPinsToWorker(t *testing.T) {
	p := New(4, false)
	defer p.Close()

	results := make(chan int, 4)
	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		p.SpawnOn(2, func() {
			results <- 2
			wg.Done()
		})
	}
	wg.Wait()
	close(results)

	for r := range results {
		if r != 2 {
			t.Fatalf("job ran off the pinned worker: %d", r)
		}
	}
	if got := p.executed(2); got != 4 {
		t.Fatalf("worker 2 executed %d jobs, want 4", got)
	}
}

func TestCloseJoinsAllWorkers(t *testing.T) {
	p := New(2, false)
	var ran atomic.Bool
	p.Spawn(func() { ran.Store(true) })
	p.Close()
	if !ran.Load() {
		t.Fatal("job did not run before Close returned")
	}
}
