package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Command is one shell command line to run.
type Command struct {
	Line string
	Dir  string // working directory; "" inherits the process's
	// Interactive attaches the process's stdin so the command can prompt.
	Interactive bool
}

// Result captures the outcome of a command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes commands. A non-zero exit is reported in Result.ExitCode,
// not as an error; the error return is for failures to start or wait.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ShellRunner runs commands through "sh -c", streaming output to Stdout and
// Stderr while capturing it.
type ShellRunner struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// waitDelay bounds how long Run waits for output pipes after the shell is
// killed.
const waitDelay = 2 * time.Second

// Run executes cmd.Line with sh -c. Cancelling ctx kills the shell and
// every process it started.
func (s *ShellRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, "sh", "-c", cmd.Line)
	c.Dir = cmd.Dir
	killProcessGroup(c)
	c.WaitDelay = waitDelay

	stdout := s.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := s.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if cmd.Interactive {
		c.Stdin = s.Stdin
		if c.Stdin == nil {
			c.Stdin = os.Stdin
		}
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	c.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err := c.Run()

	res := Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %q: %w", cmd.Line, err)
	}
	return res, nil
}
