// Package pipeline runs a road generator end to end: generate segments,
// build the graph, export it, and render the requested artifacts.
//
// The CLI and the HTTP server both go through a [Runner], so caching,
// logging and instrumentation behave the same from either entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Strategy: "organic",
//	    Seed:     7,
//	    Formats:  []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := res.Artifacts["svg"]
//
// Run stages individually:
//
//	res, err := runner.Generate(ctx, opts)
//	artifacts, err := runner.Render(ctx, res, opts)
//
// Run several strategies concurrently, each from its own derived seed:
//
//	results, err := runner.GenerateAll(ctx, opts, gen.Strategies)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roadweave/pkg/cache"
	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen"
	"github.com/matzehuels/roadweave/pkg/gen/grid"
	"github.com/matzehuels/roadweave/pkg/gen/organic"
	"github.com/matzehuels/roadweave/pkg/gen/radial"
	"github.com/matzehuels/roadweave/pkg/geom"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSeed is the seed used when none is given.
	DefaultSeed = uint64(42)

	// DefaultPrecision is the number of decimals kept when merging segment
	// endpoints into graph nodes.
	DefaultPrecision = 3

	// DefaultWidth is the sketch width in pixels.
	DefaultWidth = 800.0
)

// DefaultStrategy is the generator used when none is given.
const DefaultStrategy = gen.Grid

// Format constants for output formats.
const (
	FormatJSON   = "json"   // exported road network
	FormatDOT    = "dot"    // Graphviz source of the node-link diagram
	FormatSVG    = "svg"    // node-link diagram
	FormatPNG    = "png"    // node-link diagram
	FormatSketch = "sketch" // raw generator segments as SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:   true,
	FormatDOT:    true,
	FormatSVG:    true,
	FormatPNG:    true,
	FormatSketch: true,
}

// Ext returns the file extension written for format.
func Ext(format string) string {
	switch format {
	case FormatSketch:
		return ".sketch.svg"
	case "":
		return ""
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. Generator option
// blocks left nil use that generator's defaults. Options supports JSON for
// API requests.
type Options struct {
	Strategy string `json:"strategy"`
	Seed     uint64 `json:"seed,omitempty"`

	Grid    *grid.Options    `json:"grid,omitempty"`
	Organic *organic.Options `json:"organic,omitempty"`
	Radial  *radial.Options  `json:"radial,omitempty"`

	// Graph building
	Direction string `json:"direction,omitempty"`
	Precision *int   `json:"precision,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and API responses.
	RunID    string
	Strategy gen.Strategy
	Seed     uint64

	// Segments is the generator's raw output.
	Segments []geom.Segment

	// Store is the road network built from Segments.
	Store *roadgraph.Store

	// Graph is the exported JSON form of Store and GraphHash its hash.
	Graph     []byte
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Segments     int
	Nodes        int
	Edges        int
	Rejected     int // organic only: segments dropped for crowding
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	GraphHit  bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg, png, sketch)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks and defaults the fields Generate reads.
func (o *Options) ValidateForGenerate() error {
	if o.Strategy == "" {
		o.Strategy = string(DefaultStrategy)
	}
	st, err := gen.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(st)

	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Direction == "" {
		o.Direction = string(roadgraph.Bi)
	}
	if _, err := roadgraph.ParseDirection(o.Direction); err != nil {
		return err
	}
	if o.Precision == nil {
		p := DefaultPrecision
		o.Precision = &p
	} else if *o.Precision < 0 || *o.Precision > 12 {
		return errors.New(errors.ErrCodeInvalidConfig, "precision must be between 0 and 12, got %d", *o.Precision)
	}

	switch st {
	case gen.Grid:
		if o.Grid == nil {
			d := grid.DefaultOptions()
			o.Grid = &d
		}
		err = o.Grid.Validate()
	case gen.Organic:
		if o.Organic == nil {
			d := organic.DefaultOptions()
			o.Organic = &d
		}
		err = o.Organic.Validate()
	case gen.Radial:
		if o.Radial == nil {
			d := radial.DefaultOptions()
			o.Radial = &d
		}
		err = o.Radial.Validate()
	}
	if err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks and defaults the fields Render reads.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Scale < 0 || o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale and width must be positive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// generatorOptions returns the option block for the selected strategy,
// used as part of the graph cache key.
func (o *Options) generatorOptions() any {
	switch gen.Strategy(o.Strategy) {
	case gen.Grid:
		return o.Grid
	case gen.Organic:
		return o.Organic
	case gen.Radial:
		return o.Radial
	}
	return nil
}

// buildOptions returns how segments are merged into the graph.
func (o *Options) buildOptions() gen.BuildOptions {
	return gen.BuildOptions{
		Direction: roadgraph.Direction(o.Direction),
		Precision: *o.Precision,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: o.Labels,
		Width:  o.Width,
	}
}
