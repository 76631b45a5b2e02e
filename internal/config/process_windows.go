//go:build windows

package config

import "os"

// isProcessAlive reports whether pid exists. FindProcess opens a handle on
// Windows, so it fails for processes that are gone.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
