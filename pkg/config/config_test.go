package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen/grid"
	"github.com/matzehuels/roadweave/pkg/gen/radial"
)

func TestDefaultMatchesGenerators(t *testing.T) {
	opts := Default().PipelineOptions()
	assert.Equal(t, grid.DefaultOptions(), *opts.Grid)
	assert.Equal(t, radial.DefaultOptions(), *opts.Radial)
	require.NoError(t, Default().Validate())
}

func TestDecodeTOML(t *testing.T) {
	src := `
seed = 7
strategy = "organic"

[organic]
max_segments = 800
merge_distance = 9

[organic.start]
x = 10
y = -5

[render]
formats = ["json", "svg"]
`
	cfg, err := Decode(strings.NewReader(src), TOML)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "organic", cfg.Strategy)
	assert.Equal(t, 800, cfg.Organic.MaxSegments)
	assert.Equal(t, 9.0, cfg.Organic.MergeDistance)
	assert.Equal(t, 25.0, cfg.Organic.SeedLength, "unset keys keep their default")
	assert.Equal(t, Point{X: 10, Y: -5}, cfg.Organic.Start)
	assert.Equal(t, []string{"json", "svg"}, cfg.Render.Formats)
}

func TestDecodeYAML(t *testing.T) {
	src := `
seed: 3
strategy: radial
radial:
  ring_count: 4
  shortcut_prob: 0
graph:
  direction: uni
`
	cfg, err := Decode(strings.NewReader(src), YAML)
	require.NoError(t, err)

	opts := cfg.PipelineOptions()
	assert.Equal(t, 4, opts.Radial.RingCount)
	assert.Equal(t, 18, opts.Radial.MaxSpokes)
	assert.Zero(t, opts.Radial.ShortcutProb)
	assert.Equal(t, "uni", opts.Direction)
}

func TestDecodeEmptyYAML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
		code   errors.Code
	}{
		{"unknown toml key", "sede = 1", TOML, errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "grid:\n  min_sise: 3\n", YAML, errors.ErrCodeInvalidConfig},
		{"toml syntax", "seed = ", TOML, errors.ErrCodeInvalidConfig},
		{"bad strategy", `strategy = "hex"`, TOML, errors.ErrCodeInvalidStrategy},
		{"bad direction", "graph:\n  direction: sideways\n", YAML, errors.ErrCodeInvalidDirection},
		{"too few spokes", "[radial]\nmax_spokes = 2", TOML, errors.ErrCodeInvalidConfig},
		{"bad format", "[render]\nformats = [\"gif\"]", TOML, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), tt.format)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "city.yml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 99\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = Load(filepath.Join(dir, "city.ini"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPipelineOptionsIndependent(t *testing.T) {
	cfg := Default()
	opts := cfg.PipelineOptions()
	opts.Formats[0] = "svg"
	opts.Grid.MinSize = 1
	assert.Equal(t, "json", cfg.Render.Formats[0])
	assert.Equal(t, 40.0, cfg.Grid.MinSize)
}
