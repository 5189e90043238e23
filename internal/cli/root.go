package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/base-cli/base/internal/branding"
	"github.com/base-cli/base/internal/config"
	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/logging"
	"github.com/base-cli/base/internal/ui"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbosity  int
	configPath string

	// cfg is loaded once in PersistentPreRunE and passed to the commands.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds a new project from the backend and frontend templates,
registers it with Laravel Homestead and provisions it inside the VM.

Run '` + branding.CLIName() + ` setup' once, then '` + branding.CLIName() + ` create <name>' for each project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupLogger(verbosity)

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
}

// Execute runs the root command with build info injected via ldflags. An
// interrupt cancels the running command; partially created state is left as is.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

// printError reports err, including captured stderr for remote failures.
func printError(w io.Writer, err error) {
	p := ui.NewPrinter(w)
	p.Error("Error: %v", err)

	e, ok := errors.As(err)
	if !ok || e.Code != errors.ERemoteExecution {
		return
	}
	if e.ExitCode > 0 {
		p.Muted(fmt.Sprintf("exit code: %d", e.ExitCode))
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		p.Muted("stderr:")
		for _, line := range strings.Split(stderr, "\n") {
			p.Muted("  " + line)
		}
	}
}
