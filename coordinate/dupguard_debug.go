//go:build debug

package coordinate

import (
	"fmt"

	cuckoo "github.com/seiflotfy/cuckoofilter"
)

// dupGuard catches a task being pushed to the sink twice within a single
// stage — the "at-most-once value" invariant — without keeping a full
// set of every key seen. A cuckoo filter trades a small false-positive
// rate for O(1) space independent of key cardinality, which is the right
// trade for a check that only runs in debug builds anyway.
type dupGuard struct {
	filter *cuckoo.Filter
}

func newDupGuard() *dupGuard {
	return &dupGuard{filter: cuckoo.NewFilter(1 << 16)}
}

// markAndPanic panics if key has already been marked this stage,
// otherwise marks it.
func (g *dupGuard) markAndPanic(key any) {
	b := []byte(fmt.Sprintf("%v", key))
	if g.filter.Lookup(b) {
		panic(fmt.Sprintf("coordinate: task %v pushed to sink more than once in one stage", key))
	}
	g.filter.InsertUnique(b)
}
