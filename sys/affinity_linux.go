package sys

import (
	"golang.org/x/sys/unix"

	"github.com/clemson-cal/gridiron-go/internal/nlog"
)

// PinCurrentThread pins the calling OS thread to a single core. Callers
// must have already called runtime.LockOSThread: Go only guarantees a
// goroutine stays put on the thread it's currently scheduled on once
// locked, and CPU affinity is a thread (not goroutine) property.
//
// Adapted from the original's core_affinity-crate usage in thread_pool.rs;
// this module has no equivalent crate dependency in its pack, so affinity
// is set directly via the sched_setaffinity syscall wrapper in
// golang.org/x/sys/unix (an aistore indirect dependency, pulled in here
// directly instead of vendoring a single-purpose affinity library).
func PinCurrentThread(core int) bool {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		nlog.Warningf("sys: pin to core %d failed: %v", core, err)
		return false
	}
	return true
}

// HaveAffinity reports whether PinCurrentThread can plausibly succeed on
// this platform.
func HaveAffinity() bool { return true }
