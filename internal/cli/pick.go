package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roadweave/pkg/config"
	"github.com/matzehuels/roadweave/pkg/gen"
)

// pickCommand creates the pick command: choose a generator interactively
// (or by name) and generate one network with default settings.
func (c *CLI) pickCommand() *cobra.Command {
	cfg := config.Default()
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "pick [choice]",
		Short: "Choose a generator interactively and run it",
		Long: `Pick a road generator from a menu and generate one network with the default
settings. A choice given as argument (grid, block, organic, radial, ring)
skips the menu.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: strategyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var st gen.Strategy
			if len(args) == 1 {
				var err error
				if st, err = gen.ParseStrategy(args[0]); err != nil {
					return err
				}
			} else {
				picked, err := runPicker(cmd)
				if err != nil {
					return err
				}
				if picked == "" {
					printInfo("Nothing selected")
					return nil
				}
				st = picked
			}

			cfg.Strategy = string(st)
			if opts.formats != "" {
				cfg.Render.Formats = parseFormats(opts.formats)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().Uint64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "random seed")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "output directory")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "base file name (default road_network_<timestamp>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg, png, sketch")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	return cmd
}

func runPicker(cmd *cobra.Command) (gen.Strategy, error) {
	p := tea.NewProgram(NewStrategyPicker(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(StrategyPicker).Selected, nil
}
