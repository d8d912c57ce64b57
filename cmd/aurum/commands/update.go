package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check every tracked package for upstream changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcomes, err := c.app.Update(cmd.Context())
			reportOutcomes(cmd.OutOrStdout(), outcomes)
			return err
		},
	}
}
