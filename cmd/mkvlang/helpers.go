package main

import "os/exec"

// resolveOptional returns the binary name when it is on PATH, or empty so
// callers can skip the feature that needs it.
func resolveOptional(binary string) string {
	if _, err := exec.LookPath(binary); err != nil {
		return ""
	}
	return binary
}
