package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/roadweave/pkg/cache"
	"github.com/matzehuels/roadweave/pkg/gen"
	roadio "github.com/matzehuels/roadweave/pkg/io"
	"github.com/matzehuels/roadweave/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer], a nil
// cache disables caching, and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute generates a network and renders opts.Formats.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	start := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"run", res.RunID,
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// Generate runs the selected generator and builds the road network.
// A cached run with identical strategy, seed and options is reused unless
// opts.Refresh is set.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	hooks := observability.Pipeline()

	res := &Result{
		RunID:    uuid.NewString(),
		Strategy: gen.Strategy(opts.Strategy),
		Seed:     opts.Seed,
	}
	hooks.OnGenerateStart(ctx, opts.Strategy, opts.Seed)
	start := time.Now()

	out, hit, err := r.generate(ctx, opts)
	res.Stats.GenerateTime = time.Since(start)
	if err != nil {
		hooks.OnGenerateComplete(ctx, opts.Strategy, observability.GenerateStats{}, res.Stats.GenerateTime, err)
		return nil, err
	}

	store, err := roadio.ReadStore(bytes.NewReader(out.Graph))
	if err != nil {
		return nil, fmt.Errorf("reload graph: %w", err)
	}

	res.Segments = out.Segments
	res.Store = store
	res.Graph = out.Graph
	res.GraphHash = cache.Hash(out.Graph)
	res.CacheInfo.GraphHit = hit
	res.Stats.Segments = len(out.Segments)
	res.Stats.Rejected = out.Rejected
	res.Stats.Nodes = store.NodeCount()
	res.Stats.Edges = store.EdgeCount()

	hooks.OnGenerateComplete(ctx, opts.Strategy, observability.GenerateStats{
		Segments: res.Stats.Segments,
		Nodes:    res.Stats.Nodes,
		Edges:    res.Stats.Edges,
	}, res.Stats.GenerateTime, nil)

	logger.Info("generated road network",
		"run", res.RunID,
		"strategy", opts.Strategy,
		"seed", opts.Seed,
		"segments", res.Stats.Segments,
		"nodes", res.Stats.Nodes,
		"edges", res.Stats.Edges,
		"cached", hit,
		"duration", res.Stats.GenerateTime)
	if res.Stats.Rejected > 0 {
		logger.Debug("crowded segments dropped", "run", res.RunID, "rejected", res.Stats.Rejected)
	}
	return res, nil
}

func (r *Runner) generate(ctx context.Context, opts Options) (generated, bool, error) {
	key := r.Keyer.GraphKey(opts.Strategy, opts.Seed, graphKey{
		Generator: opts.generatorOptions(),
		Direction: opts.Direction,
		Precision: *opts.Precision,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var out generated
			if err := json.Unmarshal(data, &out); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return out, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	segs, rejected, err := runGenerator(opts)
	if err != nil {
		return generated{}, false, err
	}
	store, err := gen.BuildGraph(segs, opts.buildOptions())
	if err != nil {
		return generated{}, false, err
	}
	graph, err := roadio.MarshalJSON(store)
	if err != nil {
		return generated{}, false, err
	}
	out := generated{Segments: segs, Rejected: rejected, Graph: graph}

	if data, err := json.Marshal(out); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.GraphTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		} else {
			opts.Logger.Debug("cache write failed", "error", err)
		}
	}
	return out, false, nil
}

// RenderWithCacheInfo renders opts.Formats for res and reports whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(res.GraphHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			break
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderResult(ctx, res, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(res.GraphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit report.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// GenerateAll runs Execute once per strategy concurrently. Run i uses
// gen.DeriveSeed(opts.Seed, i) so no two runs share a random source.
// Results are returned in the order of strategies; the first error cancels
// the remaining runs.
func (r *Runner) GenerateAll(ctx context.Context, opts Options, strategies []gen.Strategy) ([]*Result, error) {
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	results := make([]*Result, len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	for i, st := range strategies {
		run := opts
		run.Strategy = string(st)
		run.Seed = gen.DeriveSeed(opts.Seed, i)
		run.validated = false
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, run)
			if err != nil {
				return fmt.Errorf("%s: %w", st, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
