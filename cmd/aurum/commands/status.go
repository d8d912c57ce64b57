package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracked packages, their heads and install state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := c.app.Status()
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tracked packages")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PACKAGE\tHEAD\tINSTALLED\tSNAPSHOTS\tPATCHES")
			for _, st := range statuses {
				installed := "-"
				switch {
				case st.UpToDate:
					installed = st.InstalledVersion
				case st.InstalledSnap != "":
					installed = st.InstalledVersion + " (outdated)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					st.Package, st.HeadVersion, installed, st.Snapshots, st.Patches)
			}
			return w.Flush()
		},
	}
}
