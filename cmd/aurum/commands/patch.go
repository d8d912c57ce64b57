package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *CLI) newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Manage stored patches for a package",
	}
	cmd.AddCommand(c.newPatchAddCmd())
	cmd.AddCommand(c.newPatchListCmd())
	cmd.AddCommand(c.newPatchRmCmd())
	return cmd
}

func (c *CLI) newPatchAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <package>",
		Short: "Store a unified diff as a patch, read from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			description, _ := cmd.Flags().GetString("message")

			var (
				text []byte
				err  error
			)
			if file != "" {
				text, err = os.ReadFile(file)
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			if err := c.app.AddPatch(args[0], description, string(text)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "patch stored for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read the diff from a file instead of stdin")
	cmd.Flags().StringP("message", "m", "", "Describe what the patch does")
	return cmd
}

func (c *CLI) newPatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <package>",
		Short: "List the package's patches in application order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patches, err := c.app.ListPatches(args[0])
			if err != nil {
				return err
			}
			if len(patches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no patches")
				return nil
			}
			for i, p := range patches {
				description := p.Description
				if description == "" {
					description = "(no description)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, description)
			}
			return nil
		},
	}
}

func (c *CLI) newPatchRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <package> <index>",
		Short: "Remove the patch at the given index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid patch index %q", args[1])
			}
			if err := c.app.RemovePatch(args[0], index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "patch %d removed from %s\n", index, args[0])
			return nil
		},
	}
}
