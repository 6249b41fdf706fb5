package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis or MongoDB instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "storygraph:staging:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// StoryKey generates a prefixed key for generated stories.
func (k *ScopedKeyer) StoryKey(requestHash string, opts StoryKeyOpts) string {
	return k.prefix + k.inner.StoryKey(requestHash, opts)
}
