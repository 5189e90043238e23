package cli

import (
	"fmt"
	"net"
	"os"

	"github.com/base-cli/base/internal/branding"
	"github.com/base-cli/base/internal/config"
	"github.com/base-cli/base/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure " + branding.CLIName() + ". Run once before creating projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())
		prompter := ui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

		p.Info("Setting up %s", branding.CLIName())
		if _, err := promptHomesteadDir(prompter, cfg); err != nil {
			return err
		}
		if _, err := promptIPAddress(prompter, cfg); err != nil {
			return err
		}

		p.Success("Setup complete")
		p.Info("\nRun the below to get started\n  %s create PROJECTNAME", branding.CLIName())
		return nil
	},
}

// promptHomesteadDir asks for the Homestead directory, defaulting to the
// stored value or ~/Homestead, and persists the answer.
func promptHomesteadDir(prompter *ui.Prompter, s config.Store) (string, error) {
	def := s.Get(config.KeyHomesteadDirectory)
	if def == "" {
		def = config.DefaultHomesteadDirectory
	}

	dir, err := prompter.AskValid("Where is your Laravel Homestead directory?", def, 3, func(answer string) error {
		info, err := os.Stat(config.ExpandHome(answer))
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a directory", answer)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := s.Set(config.KeyHomesteadDirectory, dir); err != nil {
		return "", err
	}
	return config.ExpandHome(dir), nil
}

// promptIPAddress asks for the Homestead VM's IP and persists it.
func promptIPAddress(prompter *ui.Prompter, s config.Store) (string, error) {
	def := s.Get(config.KeyIPAddress)
	if def == "" {
		def = config.DefaultIPAddress
	}

	ip, err := prompter.AskValid("What IP address does Homestead use?", def, 3, func(answer string) error {
		if net.ParseIP(answer) == nil {
			return fmt.Errorf("%q is not an IP address", answer)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := s.Set(config.KeyIPAddress, ip); err != nil {
		return "", err
	}
	return ip, nil
}
