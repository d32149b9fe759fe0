package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roadweave/pkg/errors"
	roadio "github.com/matzehuels/roadweave/pkg/io"
	"github.com/matzehuels/roadweave/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output directory (default: next to the input)
	name    string // base file name (default: input name without extension)
	formats string
	scale   float64
	labels  bool
	width   float64
	noCache bool
}

// renderCommand creates the render command, which draws a saved road
// network without regenerating it.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{width: pipeline.DefaultWidth}

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a saved road network",
		Long: `Render a road network JSON file as a Graphviz node-link diagram (dot, svg,
png) or as a plain line sketch of its edges.`,
		Example: `  roadweave render road_networks/road_network_20250602_002559.json
  roadweave render city.json --format svg,png --labels -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: input directory)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "base file name (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, png, sketch (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "node-link coordinate scale")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "sketch width in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, formats []string, opts renderOpts) error {
	if kept := withoutFormat(formats, pipeline.FormatJSON); len(kept) != len(formats) {
		printWarning("skipping json: the input is already a road network file")
		formats = kept
	}
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "render needs at least one non-json format")
	}

	store, err := roadio.LoadStore(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded road network", "path", input, "nodes", store.NodeCount(), "edges", store.EdgeCount())

	res, err := pipeline.ResultFromStore(store)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Formats: formats,
		Scale:   opts.scale,
		Labels:  opts.labels,
		Width:   opts.width,
	}
	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, res, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	res.Artifacts = artifacts

	dir := opts.output
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := opts.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	paths, err := writeArtifacts(dir, name, res, formats)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", StyleHighlight.Render(input))
	printStats(res.Stats.Segments, res.Stats.Nodes, res.Stats.Edges, hit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func withoutFormat(formats []string, drop string) []string {
	out := formats[:0:0]
	for _, f := range formats {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}
