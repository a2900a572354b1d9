package coordinate_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/clemson-cal/gridiron-go/automaton"
	"github.com/clemson-cal/gridiron-go/exec"
	"github.com/clemson-cal/gridiron-go/work"
)

// ringTask sends "hi" to (key+1)%n and needs exactly one incoming message
// to become eligible.
type ringTask struct {
	key      int64
	n        int64
	received string
}

func (t *ringTask) Key() int64 { return t.key }
func (t *ringTask) Messages() []automaton.Message[int64, string] {
	return []automaton.Message[int64, string]{{Dest: (t.key + 1) % t.n, Body: "hi"}}
}
func (t *ringTask) Receive(msg string) automaton.Status {
	t.received = msg
	return automaton.Eligible
}
func (t *ringTask) Value() int64           { return t.key }
func (t *ringTask) WorkerHint() (int, bool) { return 0, false }
func (t *ringTask) Independent() bool      { return false }

// independentTask is immediately eligible and sends nothing.
type independentTask struct {
	key int64
}

func (t *independentTask) Key() int64                                   { return t.key }
func (t *independentTask) Messages() []automaton.Message[int64, string] { return nil }
func (t *independentTask) Receive(string) automaton.Status              { return automaton.Eligible }
func (t *independentTask) Value() int64                                 { return t.key }
func (t *independentTask) WorkerHint() (int, bool)                      { return 0, false }
func (t *independentTask) Independent() bool                            { return true }

var _ = Describe("Coordinate", func() {
	It("completes a ring of 4 tasks in one stage, serially", func() {
		flow := make([]automaton.Automaton[int64, string, int64], 4)
		tasks := make([]*ringTask, 4)
		for i := int64(0); i < 4; i++ {
			tasks[i] = &ringTask{key: i, n: 4}
			flow[i] = tasks[i]
		}

		values := exec.Serial[int64, string, int64](flow, work.Constant[int64](0))

		Expect(values).To(ConsistOf(int64(0), int64(1), int64(2), int64(3)))
		for _, t := range tasks {
			Expect(t.received).To(Equal("hi"))
		}
	})

	It("completes an independent-only group with no messaging", func() {
		flow := make([]automaton.Automaton[int64, string, int64], 8)
		for i := int64(0); i < 8; i++ {
			flow[i] = &independentTask{key: i}
		}

		values := exec.Serial[int64, string, int64](flow, work.Constant[int64](0))

		Expect(values).To(HaveLen(8))
	})

	It("completes a 3-cycle A->B->C->A without deadlock", func() {
		flow := make([]automaton.Automaton[int64, string, int64], 3)
		for i := int64(0); i < 3; i++ {
			flow[i] = &ringTask{key: i, n: 3}
		}

		values := exec.Serial[int64, string, int64](flow, work.Constant[int64](0))

		Expect(values).To(ConsistOf(int64(0), int64(1), int64(2)))
	})

	It("is order-independent: the later-yielded task still completes in one round", func() {
		// Two tasks, each sending exactly one message to the other; flow
		// order is reversed relative to key order.
		a := &ringTask{key: 0, n: 2}
		b := &ringTask{key: 1, n: 2}
		flow := []automaton.Automaton[int64, string, int64]{b, a}

		values := exec.Serial[int64, string, int64](flow, work.Constant[int64](0))

		Expect(values).To(ConsistOf(int64(0), int64(1)))
	})
})
