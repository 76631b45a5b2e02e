//go:build !windows

package config

import "syscall"

// isProcessAlive reports whether pid exists. Signal 0 probes without
// delivering anything.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
