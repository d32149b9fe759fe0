package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/roadweave/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The persistent --verbose flag switches the CLI logger to
// debug level before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Roadweave generates procedural road networks",
		Long: `Roadweave synthesizes road networks with three strategies (recursive grid
subdivision, organic growth and radial rings), stores them as node/edge
graphs, and exports them as JSON, Graphviz and SVG/PNG diagrams.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
