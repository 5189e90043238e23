package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/logging"
)

// Orchestrator builds and runs commands against one project's guest directory.
type Orchestrator struct {
	HomesteadDir string // host directory holding the Vagrantfile
	GuestPath    string // project directory inside the VM
	Runner       Runner
	// Timeout bounds each command; 0 means no deadline.
	Timeout time.Duration
}

// BuildCommand wraps command so it runs in GuestPath inside the VM:
//
//	cd <homestead> && vagrant ssh -c 'cd <guest> && <command>'
func (o *Orchestrator) BuildCommand(command string) string {
	inner := "cd " + shellescape.Quote(o.GuestPath) + " && " + command
	return "cd " + shellescape.Quote(o.HomesteadDir) + " && vagrant ssh -c " + shellescape.Quote(inner)
}

// BuildInteractiveCommand is BuildCommand with a TTY allocated for the ssh session.
func (o *Orchestrator) BuildInteractiveCommand(command string) string {
	return o.BuildCommand(command) + " -- -t"
}

// Execute runs a fully built command line. A non-zero exit, a failure to
// start, or an expired Timeout is returned as an E_REMOTE_EXECUTION error.
func (o *Orchestrator) Execute(ctx context.Context, command string) (Result, error) {
	return o.run(ctx, Command{Line: command})
}

// Remote runs command in the guest directory.
func (o *Orchestrator) Remote(ctx context.Context, command string) (Result, error) {
	return o.Execute(ctx, o.BuildCommand(command))
}

// RemoteInteractive runs command in the guest directory with the terminal attached.
func (o *Orchestrator) RemoteInteractive(ctx context.Context, command string) (Result, error) {
	return o.run(ctx, Command{Line: o.BuildInteractiveCommand(command), Interactive: true})
}

// Local runs command on the host in dir.
func (o *Orchestrator) Local(ctx context.Context, dir, command string) (Result, error) {
	return o.run(ctx, Command{Line: command, Dir: dir})
}

func (o *Orchestrator) run(ctx context.Context, cmd Command) (Result, error) {
	logger := logging.GetLogger("remote")
	done := logging.LogOperationStart(logger, "execute", cmd.Line)
	defer done()

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	res, err := o.Runner.Run(ctx, cmd)
	if err != nil {
		msg := err.Error()
		if stderrors.Is(err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("timed out after %s", o.Timeout)
		}
		return res, &errors.Error{
			Code:     errors.ERemoteExecution,
			Op:       "execute",
			Resource: cmd.Line,
			Msg:      msg,
			Cause:    err,
			ExitCode: -1,
			Stderr:   res.Stderr,
		}
	}
	if res.ExitCode != 0 {
		logger.Debug().Str("command", cmd.Line).Int("exitCode", res.ExitCode).
			Str("stderr", strings.TrimSpace(res.Stderr)).Msg("Command failed")
		return res, errors.Remote(cmd.Line, res.ExitCode, res.Stderr)
	}
	return res, nil
}
