package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or
// environments can share one cache backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolveKey generates a prefixed key for solve result caching.
func (k *ScopedKeyer) SolveKey(definitionHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(definitionHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(solveHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(solveHash, opts)
}
