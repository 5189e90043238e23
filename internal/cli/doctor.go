package cli

import (
	"fmt"

	"github.com/base-cli/base/internal/doctor"
	"github.com/base-cli/base/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the host is ready to provision projects",
	Long:  `Verify vagrant and npm are installed at supported versions and that the configured Homestead directory and manifest are usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())
		checks := doctor.New().Run(cmd.Context(), cfg)

		p.Header("Doctor:")
		for _, c := range checks {
			p.Status(string(c.Status), c.Detail)
		}
		if !doctor.Healthy(checks) {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}
