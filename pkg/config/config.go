// Package config loads generation settings from TOML or YAML files.
//
// A file overrides the built-in defaults key by key, so a config only needs
// the values it changes:
//
//	seed = 7
//	strategy = "organic"
//
//	[organic]
//	max_segments = 800
//	merge_distance = 9
//
// Unknown keys are rejected so a typo does not silently fall back to a
// default.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen/grid"
	"github.com/matzehuels/roadweave/pkg/gen/organic"
	"github.com/matzehuels/roadweave/pkg/gen/radial"
	"github.com/matzehuels/roadweave/pkg/geom"
	"github.com/matzehuels/roadweave/pkg/pipeline"
)

// Format is a config file syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// File is the on-disk configuration.
type File struct {
	Seed     uint64 `toml:"seed" yaml:"seed"`
	Strategy string `toml:"strategy" yaml:"strategy"`
	// Output is the directory generated files are written to.
	Output string `toml:"output" yaml:"output"`

	Grid    Grid    `toml:"grid" yaml:"grid"`
	Organic Organic `toml:"organic" yaml:"organic"`
	Radial  Radial  `toml:"radial" yaml:"radial"`
	Graph   Graph   `toml:"graph" yaml:"graph"`
	Render  Render  `toml:"render" yaml:"render"`
}

// Point is a coordinate pair.
type Point struct {
	X float64 `toml:"x" yaml:"x"`
	Y float64 `toml:"y" yaml:"y"`
}

// Grid holds grid subdivision settings.
type Grid struct {
	X        float64 `toml:"x" yaml:"x"`
	Y        float64 `toml:"y" yaml:"y"`
	Width    float64 `toml:"width" yaml:"width"`
	Height   float64 `toml:"height" yaml:"height"`
	MinSize  float64 `toml:"min_size" yaml:"min_size"`
	MaxDepth int     `toml:"max_depth" yaml:"max_depth"`
}

// Organic holds organic growth settings.
type Organic struct {
	Start         Point   `toml:"start" yaml:"start"`
	MaxSegments   int     `toml:"max_segments" yaml:"max_segments"`
	MergeDistance float64 `toml:"merge_distance" yaml:"merge_distance"`
	SeedLength    float64 `toml:"seed_length" yaml:"seed_length"`
}

// Radial holds radial ring settings.
type Radial struct {
	Center         Point   `toml:"center" yaml:"center"`
	BaseRadius     float64 `toml:"base_radius" yaml:"base_radius"`
	RingCount      int     `toml:"ring_count" yaml:"ring_count"`
	MaxSpokes      int     `toml:"max_spokes" yaml:"max_spokes"`
	Jitter         float64 `toml:"jitter" yaml:"jitter"`
	ShortcutProb   float64 `toml:"shortcut_prob" yaml:"shortcut_prob"`
	NoiseAmplitude float64 `toml:"noise_amplitude" yaml:"noise_amplitude"`
	NoiseScale     float64 `toml:"noise_scale" yaml:"noise_scale"`
	OuterExtension float64 `toml:"outer_extension" yaml:"outer_extension"`
	AngleJitter    float64 `toml:"angle_jitter" yaml:"angle_jitter"`
}

// Graph holds the segment-to-graph settings.
type Graph struct {
	Direction string `toml:"direction" yaml:"direction"`
	Precision int    `toml:"precision" yaml:"precision"`
}

// Render holds output settings.
type Render struct {
	Formats []string `toml:"formats" yaml:"formats"`
	Scale   float64  `toml:"scale" yaml:"scale"`
	Labels  bool     `toml:"labels" yaml:"labels"`
	Width   float64  `toml:"width" yaml:"width"`
}

// Default returns the built-in settings.
func Default() File {
	g, o, r := grid.DefaultOptions(), organic.DefaultOptions(), radial.DefaultOptions()
	return File{
		Seed:     pipeline.DefaultSeed,
		Strategy: string(pipeline.DefaultStrategy),
		Output:   "road_networks",
		Grid: Grid{
			X: g.Area.X, Y: g.Area.Y, Width: g.Area.W, Height: g.Area.H,
			MinSize: g.MinSize, MaxDepth: g.MaxDepth,
		},
		Organic: Organic{
			Start:         Point{X: o.Start.X, Y: o.Start.Y},
			MaxSegments:   o.MaxSegments,
			MergeDistance: o.MergeDistance,
			SeedLength:    o.SeedLength,
		},
		Radial: Radial{
			Center:         Point{X: r.Center.X, Y: r.Center.Y},
			BaseRadius:     r.BaseRadius,
			RingCount:      r.RingCount,
			MaxSpokes:      r.MaxSpokes,
			Jitter:         r.Jitter,
			ShortcutProb:   r.ShortcutProb,
			NoiseAmplitude: r.NoiseAmplitude,
			NoiseScale:     r.NoiseScale,
			OuterExtension: r.OuterExtension,
			AngleJitter:    r.AngleJitter,
		},
		Graph:  Graph{Direction: "bi", Precision: pipeline.DefaultPrecision},
		Render: Render{Formats: []string{pipeline.FormatJSON}, Scale: 1, Width: pipeline.DefaultWidth},
	}
}

// FormatOf picks the syntax from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown extension (want .toml, .yaml or .yml)", path)
}

// Load reads the config file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	format, err := FormatOf(path)
	if err != nil {
		return File{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open config %s", path)
		}
		return File{}, errors.Wrap(errors.ErrCodeIO, err, "open config %s", path)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a config in the given syntax over the defaults and
// validates the result.
func Decode(r io.Reader, format Format) (File, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config")
	}

	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "TOML syntax error in config")
		}
		if extra := md.Undecoded(); len(extra) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", extra[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "YAML syntax error in config")
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section through the pipeline's own validation.
func (f File) Validate() error {
	opts := f.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	// the pipeline only validates the selected strategy's block
	if err := opts.Grid.Validate(); err != nil {
		return err
	}
	if err := opts.Organic.Validate(); err != nil {
		return err
	}
	return opts.Radial.Validate()
}

// PipelineOptions converts the file into pipeline options with every
// generator block filled in.
func (f File) PipelineOptions() pipeline.Options {
	g := grid.Options{
		Area:     geom.Rect{X: f.Grid.X, Y: f.Grid.Y, W: f.Grid.Width, H: f.Grid.Height},
		MinSize:  f.Grid.MinSize,
		MaxDepth: f.Grid.MaxDepth,
	}
	o := organic.Options{
		Start:         geom.Pt(f.Organic.Start.X, f.Organic.Start.Y),
		MaxSegments:   f.Organic.MaxSegments,
		MergeDistance: f.Organic.MergeDistance,
		SeedLength:    f.Organic.SeedLength,
	}
	r := radial.Options{
		Center:         geom.Pt(f.Radial.Center.X, f.Radial.Center.Y),
		BaseRadius:     f.Radial.BaseRadius,
		RingCount:      f.Radial.RingCount,
		MaxSpokes:      f.Radial.MaxSpokes,
		Jitter:         f.Radial.Jitter,
		ShortcutProb:   f.Radial.ShortcutProb,
		NoiseAmplitude: f.Radial.NoiseAmplitude,
		NoiseScale:     f.Radial.NoiseScale,
		OuterExtension: f.Radial.OuterExtension,
		AngleJitter:    f.Radial.AngleJitter,
	}
	precision := f.Graph.Precision
	return pipeline.Options{
		Strategy:  f.Strategy,
		Seed:      f.Seed,
		Grid:      &g,
		Organic:   &o,
		Radial:    &r,
		Direction: f.Graph.Direction,
		Precision: &precision,
		Formats:   append([]string(nil), f.Render.Formats...),
		Scale:     f.Render.Scale,
		Labels:    f.Render.Labels,
		Width:     f.Render.Width,
	}
}
