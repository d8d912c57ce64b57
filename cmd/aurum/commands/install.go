package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>...",
		Short: "Fetch, review and install the named packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := c.app.Install(cmd.Context(), args)
			reportOutcomes(cmd.OutOrStdout(), outcomes)
			return err
		},
	}
}
