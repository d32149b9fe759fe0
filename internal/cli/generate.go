package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/roadweave/pkg/config"
	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen"
	roadio "github.com/matzehuels/roadweave/pkg/io"
	"github.com/matzehuels/roadweave/pkg/pipeline"
)

// generateOpts holds the flags of the generate command that are not part
// of the config file.
type generateOpts struct {
	configPath string
	formats    string
	name       string
	all        bool
	noCache    bool
	refresh    bool
}

// generateCommand creates the generate command. Every setting of the
// config file has a flag; flags given on the command line win over the
// file passed with --config.
func (c *CLI) generateCommand() *cobra.Command {
	cfg := config.Default()
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [grid|organic|radial]",
		Short: "Generate a road network",
		Long: `Generate a road network with one strategy (or all of them with --all) and
write it to the output directory as JSON plus any extra --format artifacts.

Strategies:
  grid     recursive rectangular subdivision into city blocks
  organic  priority-driven branching growth that avoids crowded endpoints
  radial   concentric noisy rings joined by spokes and shortcuts`,
		Example: `  roadweave generate organic --seed 7 --format json,svg
  roadweave generate --all --config city.toml
  roadweave generate radial --rings 8 --labels --format png`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: strategyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				if err := applyConfig(cmd.Flags(), opts.configPath, &cfg); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				cfg.Strategy = args[0]
			}
			if opts.formats != "" {
				cfg.Render.Formats = parseFormats(opts.formats)
			}
			if opts.all && len(args) == 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--all cannot be combined with a strategy argument")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "TOML or YAML settings file")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg, png, sketch (comma-separated)")
	f.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output directory")
	f.StringVarP(&opts.name, "name", "n", "", "base file name (default road_network_<timestamp>)")
	f.Uint64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "random seed")
	f.BoolVar(&opts.all, "all", false, "generate every strategy concurrently")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "regenerate even when cached")

	f.StringVar(&cfg.Graph.Direction, "direction", cfg.Graph.Direction, "edge direction: bi or uni")
	f.IntVar(&cfg.Graph.Precision, "precision", cfg.Graph.Precision, "decimals kept when merging endpoints")

	f.Float64Var(&cfg.Render.Scale, "scale", cfg.Render.Scale, "node-link coordinate scale")
	f.BoolVar(&cfg.Render.Labels, "labels", cfg.Render.Labels, "label nodes in node-link diagrams")
	f.Float64Var(&cfg.Render.Width, "width", cfg.Render.Width, "sketch width in pixels")

	f.Float64Var(&cfg.Grid.X, "grid-x", cfg.Grid.X, "grid area origin x")
	f.Float64Var(&cfg.Grid.Y, "grid-y", cfg.Grid.Y, "grid area origin y")
	f.Float64Var(&cfg.Grid.Width, "grid-width", cfg.Grid.Width, "grid area width")
	f.Float64Var(&cfg.Grid.Height, "grid-height", cfg.Grid.Height, "grid area height")
	f.Float64Var(&cfg.Grid.MinSize, "min-size", cfg.Grid.MinSize, "smallest block side")
	f.IntVar(&cfg.Grid.MaxDepth, "max-depth", cfg.Grid.MaxDepth, "subdivision depth limit")

	f.Float64Var(&cfg.Organic.Start.X, "start-x", cfg.Organic.Start.X, "organic seed point x")
	f.Float64Var(&cfg.Organic.Start.Y, "start-y", cfg.Organic.Start.Y, "organic seed point y")
	f.IntVar(&cfg.Organic.MaxSegments, "max-segments", cfg.Organic.MaxSegments, "organic segment budget")
	f.Float64Var(&cfg.Organic.MergeDistance, "merge-distance", cfg.Organic.MergeDistance, "reject segments ending this close to an existing endpoint")
	f.Float64Var(&cfg.Organic.SeedLength, "seed-length", cfg.Organic.SeedLength, "length of the initial segments")

	f.Float64Var(&cfg.Radial.Center.X, "center-x", cfg.Radial.Center.X, "radial center x")
	f.Float64Var(&cfg.Radial.Center.Y, "center-y", cfg.Radial.Center.Y, "radial center y")
	f.Float64Var(&cfg.Radial.BaseRadius, "radius", cfg.Radial.BaseRadius, "outer ring radius")
	f.IntVar(&cfg.Radial.RingCount, "rings", cfg.Radial.RingCount, "number of rings")
	f.IntVar(&cfg.Radial.MaxSpokes, "spokes", cfg.Radial.MaxSpokes, "spokes on the innermost ring; each ring outward has one fewer")
	f.Float64Var(&cfg.Radial.Jitter, "jitter", cfg.Radial.Jitter, "radius jitter")
	f.Float64Var(&cfg.Radial.ShortcutProb, "shortcut-prob", cfg.Radial.ShortcutProb, "probability of a shortcut per spoke")
	f.Float64Var(&cfg.Radial.NoiseAmplitude, "noise-amplitude", cfg.Radial.NoiseAmplitude, "ring radius noise amplitude")
	f.Float64Var(&cfg.Radial.NoiseScale, "noise-scale", cfg.Radial.NoiseScale, "ring radius noise frequency")
	f.Float64Var(&cfg.Radial.OuterExtension, "outer-extension", cfg.Radial.OuterExtension, "spoke extension past the outer ring")
	f.Float64Var(&cfg.Radial.AngleJitter, "angle-jitter", cfg.Radial.AngleJitter, "spoke angle jitter in radians")

	return cmd
}

// applyConfig replaces cfg with the file at path and then re-applies every
// flag the user set explicitly.
func applyConfig(flags *pflag.FlagSet, path string, cfg *config.File) error {
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	*cfg = loaded
	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "re-apply --%s", name)
		}
	}
	return nil
}

func (c *CLI) runGenerate(ctx context.Context, cfg config.File, opts generateOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := cfg.PipelineOptions()
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	if len(popts.Formats) == 0 {
		popts.Formats = []string{pipeline.FormatJSON}
	}

	name := opts.name
	if name == "" {
		name = roadio.DefaultName(nowFunc())
	}

	var results []*pipeline.Result
	spinner := newSpinner(ctx, "Generating road network...")
	spinner.Start()
	if opts.all {
		results, err = runner.GenerateAll(ctx, popts, gen.Strategies)
	} else {
		var res *pipeline.Result
		res, err = runner.Execute(ctx, popts)
		results = []*pipeline.Result{res}
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var jsonPath string
	written := 0
	for _, res := range results {
		base := name
		if opts.all {
			base = name + "_" + string(res.Strategy)
		}
		printSuccess("Generated %s network %s", StyleHighlight.Render(string(res.Strategy)),
			StyleDim.Render(fmt.Sprintf("(seed %d)", res.Seed)))
		printStats(res.Stats.Segments, res.Stats.Nodes, res.Stats.Edges, res.CacheInfo.GraphHit)

		paths, err := writeArtifacts(cfg.Output, base, res, popts.Formats)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
			if jsonPath == "" && strings.HasSuffix(p, ".json") {
				jsonPath = p
			}
		}
		written += len(paths)
	}
	prog.done(fmt.Sprintf("wrote %d files", written))

	if jsonPath != "" {
		printNewline()
		printNextStep("Inspect the network", fmt.Sprintf("%s inspect %s", appName, jsonPath))
	}
	return nil
}

// writeArtifacts writes res in every format to dir/base<ext> and returns
// the paths written in format order. JSON goes through the atomic exporter.
func writeArtifacts(dir, base string, res *pipeline.Result, formats []string) ([]string, error) {
	if err := errors.ValidateOutputName(base); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create directory %s", dir)
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		if format == pipeline.FormatJSON {
			p, err := roadio.ExportDir(res.Store, dir, base)
			if err != nil {
				return paths, err
			}
			paths = append(paths, p)
			continue
		}
		data, ok := res.Artifacts[format]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "format %s was not rendered", format)
		}
		p := filepath.Join(dir, base+pipeline.Ext(format))
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeIO, err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func strategyNames() []string {
	names := make([]string, len(gen.Strategies))
	for i, s := range gen.Strategies {
		names[i] = string(s)
	}
	return names
}
