// Package commands implements the CLI commands for aurum.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/aurum/internal/app"
	"go.trai.ch/aurum/internal/build"
	"go.trai.ch/aurum/internal/core/domain"
)

// CLI represents the command line interface for aurum.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "aurum",
		Short:         "A package recipe tracker with review and patch reapplication",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newPatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut sets the output writer for the root command. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// reportOutcomes prints one summary line per package.
func reportOutcomes(w io.Writer, outcomes []domain.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case domain.OutcomeInstalled:
			fmt.Fprintf(w, "installed  %s %s\n", o.Package, o.Version)
		case domain.OutcomeCurrent:
			fmt.Fprintf(w, "current    %s %s\n", o.Package, o.Version)
		case domain.OutcomeDeclined:
			fmt.Fprintf(w, "declined   %s\n", o.Package)
		case domain.OutcomeFailed:
			fmt.Fprintf(w, "failed     %s: %v\n", o.Package, o.Err)
		}
	}
}
