// Package sys
/*
 * Copyright (c) 2018-2024, gridiron-go authors; adapted from aistore's
 * sys/cpu_linux.go (NVIDIA CORPORATION).
 */
package sys

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	rootProcess   = "/proc/1/cgroup"
	contCPULimit  = "/sys/fs/cgroup/cpu/cpu.cfs_quota_us"
	contCPUPeriod = "/sys/fs/cgroup/cpu/cpu.cfs_period_us"
)

// isContainerized returns true if the application is running inside a
// container (docker/lxc/k8s).
func isContainerized() bool {
	data, err := os.ReadFile(rootProcess)
	if err != nil {
		return false
	}
	s := string(data)
	return strings.Contains(s, "docker") || strings.Contains(s, "lxc") || strings.Contains(s, "kube")
}

// containerNumCPU returns an approximate number of CPUs allocated to the
// container. By default a container runs without limits and its
// cfs_quota_us is negative (-1); when limited, the quota is between 0.01
// CPU and the number of CPUs on the host. The result is rounded up.
func containerNumCPU() (int, bool) {
	quota, err := readOneInt64(contCPULimit)
	if err != nil {
		return 0, false
	}
	if quota <= 0 {
		return runtime.NumCPU(), true
	}
	period, err := readOneInt64(contCPUPeriod)
	if err != nil || period == 0 {
		return 0, false
	}
	approx := (quota + period - 1) / period
	if approx < 1 {
		approx = 1
	}
	return int(approx), true
}

func readOneInt64(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}
