package cache

// ScopedKeyer prefixes every key from an inner Keyer. The CLI scopes keys by
// release so a new generator version never reads an older version's output:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey returns the prefixed inner graph key.
func (k *ScopedKeyer) GraphKey(strategy string, seed uint64, opts any) string {
	return k.prefix + k.inner.GraphKey(strategy, seed, opts)
}

// ArtifactKey returns the prefixed inner artifact key.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
