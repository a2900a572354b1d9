//go:build !linux

package sys

// PinCurrentThread is a no-op outside Linux: sched_setaffinity has no
// portable equivalent this module depends on, so the pool falls back to
// unpinned round-robin scheduling everywhere else.
func PinCurrentThread(int) bool { return false }

func HaveAffinity() bool { return false }
