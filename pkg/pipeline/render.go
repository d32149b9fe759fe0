package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/roadweave/pkg/cache"
	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
	roadio "github.com/matzehuels/roadweave/pkg/io"
	"github.com/matzehuels/roadweave/pkg/render/nodelink"
	"github.com/matzehuels/roadweave/pkg/render/sink"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// RenderResult renders every requested format for res without caching.
func RenderResult(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	if res == nil || res.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(res.Store.Nodes(), res.Store.Adjacency(), nodelink.Options{
				Scale:  opts.Scale,
				Labels: opts.Labels,
			})
		}
		return dot
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data = res.Graph
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotSource())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dotSource())
		case FormatSketch:
			data = sink.RenderSVG(res.Segments,
				sink.WithTitle(sketchTitle(res)),
				sink.WithWidth(opts.Width))
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// ResultFromStore wraps a loaded road network so it can be rendered like
// a generated one. Each stored edge becomes one sketch segment.
func ResultFromStore(store *roadgraph.Store) (*Result, error) {
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil store")
	}
	graph, err := roadio.MarshalJSON(store)
	if err != nil {
		return nil, err
	}
	nodes := store.Nodes()
	edges := store.Edges()
	segs := make([]geom.Segment, 0, len(edges))
	for _, e := range edges {
		a, b := nodes[e.From], nodes[e.To]
		segs = append(segs, geom.Seg(a.X, a.Y, b.X, b.Y))
	}
	return &Result{
		RunID:     uuid.NewString(),
		Segments:  segs,
		Store:     store,
		Graph:     graph,
		GraphHash: cache.Hash(graph),
		Stats: Stats{
			Segments: len(segs),
			Nodes:    store.NodeCount(),
			Edges:    store.EdgeCount(),
		},
	}, nil
}

func sketchTitle(res *Result) string {
	if res.Strategy == "" {
		return "road network"
	}
	return fmt.Sprintf("%s road network (seed %d)", res.Strategy, res.Seed)
}
