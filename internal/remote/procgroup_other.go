//go:build !unix

package remote

import "os/exec"

// killProcessGroup is a no-op here; WaitDelay still bounds Run.
func killProcessGroup(*exec.Cmd) {}
