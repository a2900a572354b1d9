//go:build !linux

package sys

func isContainerized() bool           { return false }
func containerNumCPU() (int, bool) { return 0, false }
