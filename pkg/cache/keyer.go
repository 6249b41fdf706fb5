package cache

// LayoutKeyOpts holds the engine settings that change layout output.
type LayoutKeyOpts struct {
	Engine     string  `json:"engine"`
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`
	RankSep    float64 `json:"rank_sep,omitempty"`
	NodeSep    float64 `json:"node_sep,omitempty"`
}

// StoryKeyOpts identifies a generated story.
type StoryKeyOpts struct {
	Model string `json:"model"`
}

// Keyer builds cache keys for the values storygraph caches.
type Keyer interface {
	// LayoutKey addresses engine coordinates for a tree fingerprint.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// StoryKey addresses a generated story for a request fingerprint.
	StoryKey(requestHash string, opts StoryKeyOpts) string
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// StoryKey returns "story:<sha256>".
func (DefaultKeyer) StoryKey(requestHash string, opts StoryKeyOpts) string {
	return hashKey("story", requestHash, opts)
}
