//go:build unix

package remote

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts c in its own process group and makes context
// cancellation signal the whole group, so grandchildren holding the output
// pipes die with the shell.
func killProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		return syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
	}
}
