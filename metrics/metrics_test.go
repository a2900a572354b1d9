package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/clemson-cal/gridiron-go/automaton"
	"github.com/clemson-cal/gridiron-go/metrics"
)

// probe is the smallest Automaton that satisfies the interface, used only
// to drive WrapSink.
type probe struct{ key int64 }

func (p *probe) Key() int64                                   { return p.key }
func (p *probe) Messages() []automaton.Message[int64, string] { return nil }
func (p *probe) Receive(string) automaton.Status              { return automaton.Eligible }
func (p *probe) Value() int64                                 { return p.key }
func (p *probe) WorkerHint() (int, bool)                      { return 0, false }
func (p *probe) Independent() bool                            { return true }

func TestRegisterAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollectors("gridiron_test", "unit")
	if err := c.Register(reg); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := c.Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("Register on a fresh registry returned error: %v", err)
	}
}

func TestWrapWorkCountsLocalVsForwarded(t *testing.T) {
	c := metrics.NewCollectors("gridiron_test", "work")
	self := 0
	localWhenEven := func(key int64) int {
		if key%2 == 0 {
			return self
		}
		return self + 1
	}
	w := metrics.WrapWork(c, self, localWhenEven)

	for _, key := range []int64{0, 1, 2, 3} {
		w(key)
	}

	if got := testutil.ToFloat64(c.MessagesRouted); got != 2 {
		t.Fatalf("MessagesRouted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.MessagesForwarded); got != 2 {
		t.Fatalf("MessagesForwarded = %v, want 2", got)
	}
}

func TestWrapSinkCountsCompletionsAndForwards(t *testing.T) {
	c := metrics.NewCollectors("gridiron_test", "sink")
	var delivered []int64
	sink := metrics.WrapSink[int64, string, int64](c, func(a automaton.Automaton[int64, string, int64]) {
		delivered = append(delivered, a.Value())
	})

	sink(&probe{key: 1})
	sink(&probe{key: 2})

	if got := testutil.ToFloat64(c.TasksCompleted); got != 2 {
		t.Fatalf("TasksCompleted = %v, want 2", got)
	}
	if len(delivered) != 2 || delivered[0] != 1 || delivered[1] != 2 {
		t.Fatalf("sink was not forwarded to, got %v", delivered)
	}
}

func TestObserveStageRecordsDuration(t *testing.T) {
	c := metrics.NewCollectors("gridiron_test", "stage")
	reg := prometheus.NewRegistry()
	reg.MustRegister(c.StageDuration)
	c.ObserveStage(time.Now())
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) != 1 || len(mfs[0].GetMetric()) != 1 {
		t.Fatalf("gathered %d metric families, want 1 with one metric", len(mfs))
	}
	if got := mfs[0].GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("StageDuration sample count = %d, want 1", got)
	}
}
