// Package sys reports CPU availability for sizing the worker pool,
// detecting container CPU quotas rather than reaching for a third-party
// affinity/detection library — the same choice the teacher repo makes in
// its own sys package.
/*
 * Copyright (c) 2018-2024, gridiron-go authors; adapted from aistore's
 * sys/cpu.go and sys/cpu_linux.go (NVIDIA CORPORATION).
 */
package sys

import (
	"os"
	"runtime"

	"github.com/clemson-cal/gridiron-go/internal/nlog"
)

const maxProcsEnvVar = "GOMAXPROCS"

var (
	contCPUs      int
	containerized bool
)

func init() {
	contCPUs = runtime.NumCPU()
	if containerized = isContainerized(); containerized {
		if c, ok := containerNumCPU(); ok {
			contCPUs = c
		} else {
			nlog.Warningln("sys: containerized but could not read cgroup CPU quota")
		}
	}
}

func Containerized() bool { return containerized }

// NumCPU returns the number of CPUs available to this process: the
// container-imposed quota when running containerized, otherwise
// runtime.NumCPU(). pool.New uses this to cap the worker count the way
// the original's ThreadPool::new caps against the physical core count.
func NumCPU() int { return contCPUs }

// SetMaxProcs sets GOMAXPROCS = NumCPU unless already overridden via Go
// environment.
func SetMaxProcs() {
	if val, exists := os.LookupEnv(maxProcsEnvVar); exists {
		nlog.Warningf("GOMAXPROCS is set via Go environment %q: %q", maxProcsEnvVar, val)
		return
	}
	maxprocs := runtime.GOMAXPROCS(0)
	ncpu := NumCPU()
	if maxprocs > ncpu {
		nlog.Warningf("Reducing GOMAXPROCS (%d) to %d (num CPUs)", maxprocs, ncpu)
		runtime.GOMAXPROCS(ncpu)
	}
}
