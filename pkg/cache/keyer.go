package cache

// Keyer builds cache keys for generation and rendering results.
type Keyer interface {
	// GraphKey identifies an exported network produced by strategy from
	// seed with the given generator options.
	GraphKey(strategy string, seed uint64, opts any) string
	// ArtifactKey identifies a rendering of the network whose JSON export
	// hashes to graphHash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string
	Scale  float64
	Labels bool
	Width  float64
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey hashes the strategy, seed and options together.
func (DefaultKeyer) GraphKey(strategy string, seed uint64, opts any) string {
	return hashKey("graph", strategy, seed, opts)
}

// ArtifactKey hashes the graph hash with the render settings.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
