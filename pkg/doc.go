// Package pkg holds the roadweave libraries.
//
// Road networks flow through the packages in this order:
//
//	[gen] strategies (grid, organic, radial) emit line segments
//	         ↓
//	[gen.BuildGraph] merges endpoints into a [roadgraph] store
//	         ↓
//	[io] exports the store as JSON, [render] draws it
//
// [pipeline] runs that flow with caching ([cache]) and observability hooks
// ([observability]). [config] loads TOML or YAML settings into pipeline
// options, and [errors] defines the coded errors every package returns.
// [geom] holds the shared point, segment and rectangle math.
//
// Generate and export a network:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{Strategy: "organic", Seed: 7})
//	_, _ = io.ExportDir(res.Store, "road_networks", "town")
//
// [gen]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/gen
// [gen.BuildGraph]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/gen#BuildGraph
// [roadgraph]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/roadgraph
// [io]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/errors
// [geom]: https://pkg.go.dev/github.com/matzehuels/roadweave/pkg/geom
package pkg
